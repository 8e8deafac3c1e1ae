package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

var (
	sphereGeometryOffsets = offsetsOf(hierarchy.SphereGeometry, hierarchy.Geometry)
	boxGeometryOffsets    = offsetsOf(hierarchy.BoxGeometry, hierarchy.Geometry)
)

type SphereGeometry struct{ geometry }

func newSphereGeometry(p unsafe.Pointer) *SphereGeometry {
	return &SphereGeometry{geometry{obj: p, off: sphereGeometryOffsets}}
}

type BoxGeometry struct{ geometry }

func newBoxGeometry(p unsafe.Pointer) *BoxGeometry {
	return &BoxGeometry{geometry{obj: p, off: boxGeometryOffsets}}
}

func NewSphereGeometry(radius float32) (*handle.Owner[*SphereGeometry], error) {
	o, ok := handle.FromRaw(sys.SphereGeometryNew(radius), newSphereGeometry, sys.GeometryDelete)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.SphereGeometry)
	}
	return o, nil
}

func NewBoxGeometry(hx, hy, hz float32) (*handle.Owner[*BoxGeometry], error) {
	o, ok := handle.FromRaw(sys.BoxGeometryNew(hx, hy, hz), newBoxGeometry, sys.GeometryDelete)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.BoxGeometry)
	}
	return o, nil
}

package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

var (
	materialOffsets = offsetsOf(hierarchy.Material, hierarchy.Base, hierarchy.RefCounted)
	shapeOffsets    = offsetsOf(hierarchy.Shape, hierarchy.Base, hierarchy.RefCounted)
)

// Material is reference counted; shapes using it hold a reference of
// their own. Safe for concurrent use.
type Material struct{ refCounted }

func newMaterial(p unsafe.Pointer) *Material {
	return &Material{refCounted{base{obj: p, off: materialOffsets}}}
}

// Shape is reference counted; every actor it is attached to holds a
// reference.
type Shape struct{ refCounted }

func newShape(p unsafe.Pointer) *Shape {
	return &Shape{refCounted{base{obj: p, off: shapeOffsets}}}
}

func sharedRelease(off *offsets) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) { sys.RefCountedRelease(hierarchy.At(p, off.refCounted)) }
}

func sharedAcquire(off *offsets) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) { sys.RefCountedAcquireReference(hierarchy.At(p, off.refCounted)) }
}

func (p *Physics) NewMaterial(staticFriction, dynamicFriction, restitution float32) (*handle.Owner[*Material], error) {
	ptr := sys.PhysicsCreateMaterial(p.obj, staticFriction, dynamicFriction, restitution)
	o, ok := handle.FromRawShared(ptr, newMaterial, sharedRelease(materialOffsets), sharedAcquire(materialOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.Material)
	}
	return o, nil
}

// NewShape creates a shape with geometry g and material m. The geometry
// is copied and may be released afterwards.
func (p *Physics) NewShape(g Geometry, m *Material, exclusive bool) (*handle.Owner[*Shape], error) {
	ptr := sys.PhysicsCreateShape(p.obj, g.GeometryPtr(), m.Ptr(), exclusive)
	o, ok := handle.FromRawShared(ptr, newShape, sharedRelease(shapeOffsets), sharedAcquire(shapeOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.Shape)
	}
	return o, nil
}

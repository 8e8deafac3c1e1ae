package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

// Foundation is the root engine object every other object is created from.
type Foundation struct {
	obj unsafe.Pointer
}

func (f *Foundation) Ptr() unsafe.Pointer { return f.obj }

func wrapFoundation(p unsafe.Pointer) *Foundation { return &Foundation{obj: p} }

func NewFoundation() (*handle.Owner[*Foundation], error) {
	o, ok := handle.FromRaw(sys.CreateFoundation(), wrapFoundation, sys.FoundationRelease)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.Foundation)
	}
	return o, nil
}

// Physics creates the simulation objects. It is safe for concurrent use.
type Physics struct {
	obj unsafe.Pointer
}

func (p *Physics) Ptr() unsafe.Pointer { return p.obj }

func wrapPhysics(p unsafe.Pointer) *Physics { return &Physics{obj: p} }

// NewPhysics creates the physics object. It must be released before f.
func (f *Foundation) NewPhysics() (*handle.Owner[*Physics], error) {
	o, ok := handle.FromRaw(sys.CreatePhysics(f.obj), wrapPhysics, sys.PhysicsRelease)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.Physics)
	}
	return o, nil
}

// CudaContextManager is uniquely owned: releasing its owner destroys the
// context. Particle systems and buffers created from it must be released
// first.
type CudaContextManager struct {
	obj unsafe.Pointer
}

func (c *CudaContextManager) Ptr() unsafe.Pointer { return c.obj }

func wrapCudaContextManager(p unsafe.Pointer) *CudaContextManager {
	return &CudaContextManager{obj: p}
}

func (f *Foundation) NewCudaContextManager() (*handle.Owner[*CudaContextManager], error) {
	o, ok := CudaContextManagerFromRaw(sys.CreateCudaContextManager(f.obj))
	if !ok {
		return nil, ErrNoCuda
	}
	return o, nil
}

// CudaContextManagerFromRaw takes ownership of a context manager created
// elsewhere. ptr must be a live PxCudaContextManager nobody else releases.
// A nil ptr yields no owner.
func CudaContextManagerFromRaw(ptr unsafe.Pointer) (*handle.Owner[*CudaContextManager], bool) {
	return handle.FromRaw(ptr, wrapCudaContextManager, sys.CudaContextManagerRelease)
}

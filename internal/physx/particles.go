package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

var (
	pbdParticleSystemOffsets = offsetsOf(hierarchy.PBDParticleSystem,
		hierarchy.Base, hierarchy.Actor, hierarchy.ParticleSystem)
	particleBufferOffsets           = offsetsOf(hierarchy.ParticleBuffer, hierarchy.ParticleBuffer)
	particleAndDiffuseBufferOffsets = offsetsOf(hierarchy.ParticleAndDiffuseBuffer, hierarchy.ParticleBuffer)
)

type PBDParticleSystem struct{ particleSystem }

func newPBDParticleSystem(p unsafe.Pointer) *PBDParticleSystem {
	return &PBDParticleSystem{particleSystem{actor{base{obj: p, off: pbdParticleSystemOffsets}}}}
}

// ParticleBuffer holds particle state on the GPU. Buffers are uniquely
// owned; attaching one to a particle system does not transfer ownership.
type ParticleBuffer struct{ particleBuffer }

func newParticleBuffer(p unsafe.Pointer) *ParticleBuffer {
	return &ParticleBuffer{particleBuffer{obj: p, off: particleBufferOffsets}}
}

type ParticleAndDiffuseBuffer struct{ particleBuffer }

func newParticleAndDiffuseBuffer(p unsafe.Pointer) *ParticleAndDiffuseBuffer {
	return &ParticleAndDiffuseBuffer{particleBuffer{obj: p, off: particleAndDiffuseBufferOffsets}}
}

func releaseParticleBuffer(off *offsets) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) { sys.ParticleBufferRelease(hierarchy.At(p, off.particleBuffer)) }
}

func (p *Physics) NewPBDParticleSystem(cuda *CudaContextManager, maxNeighborhood uint32) (*handle.Owner[*PBDParticleSystem], error) {
	ptr := sys.PhysicsCreatePBDParticleSystem(p.obj, cuda.Ptr(), maxNeighborhood)
	o, ok := handle.FromRaw(ptr, newPBDParticleSystem, releaseActor(pbdParticleSystemOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.PBDParticleSystem)
	}
	return o, nil
}

func (p *Physics) NewParticleBuffer(maxParticles, maxVolumes uint32, cuda *CudaContextManager) (*handle.Owner[*ParticleBuffer], error) {
	o, ok := ParticleBufferFromRaw(sys.PhysicsCreateParticleBuffer(p.obj, maxParticles, maxVolumes, cuda.Ptr()))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.ParticleBuffer)
	}
	return o, nil
}

func (p *Physics) NewParticleAndDiffuseBuffer(maxParticles, maxVolumes, maxDiffuse uint32, cuda *CudaContextManager) (*handle.Owner[*ParticleAndDiffuseBuffer], error) {
	ptr := sys.PhysicsCreateParticleAndDiffuseBuffer(p.obj, maxParticles, maxVolumes, maxDiffuse, cuda.Ptr())
	o, ok := ParticleAndDiffuseBufferFromRaw(ptr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.ParticleAndDiffuseBuffer)
	}
	return o, nil
}

// ParticleBufferFromRaw takes ownership of a buffer the engine created
// from a descriptor. The descriptor initialises the buffer's user data, so
// nothing is set here. A nil ptr yields no owner.
func ParticleBufferFromRaw(ptr unsafe.Pointer) (*handle.Owner[*ParticleBuffer], bool) {
	return handle.FromRaw(ptr, newParticleBuffer, releaseParticleBuffer(particleBufferOffsets))
}

// ParticleAndDiffuseBufferFromRaw is ParticleBufferFromRaw for buffers
// carrying diffuse particles.
func ParticleAndDiffuseBufferFromRaw(ptr unsafe.Pointer) (*handle.Owner[*ParticleAndDiffuseBuffer], bool) {
	return handle.FromRaw(ptr, newParticleAndDiffuseBuffer, releaseParticleBuffer(particleAndDiffuseBufferOffsets))
}

package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

var layout = hierarchy.Default()

// Layout returns the table the wrappers compute their views from.
func Layout() *hierarchy.Table { return layout }

// offsets holds, for one concrete class, the precomputed offset of every
// capability the wrapper type exposes.
type offsets struct {
	class          hierarchy.Class
	base           uintptr
	actor          uintptr
	rigidActor     uintptr
	rigidBody      uintptr
	refCounted     uintptr
	joint          uintptr
	geometry       uintptr
	particleSystem uintptr
	particleBuffer uintptr
}

// offsetsOf looks up the offsets of caps within c. A capability missing
// from the table is a programming error and panics at init.
func offsetsOf(c hierarchy.Class, caps ...hierarchy.Class) *offsets {
	o := &offsets{class: c}
	fields := map[hierarchy.Class]*uintptr{
		hierarchy.Base:           &o.base,
		hierarchy.Actor:          &o.actor,
		hierarchy.RigidActor:     &o.rigidActor,
		hierarchy.RigidBody:      &o.rigidBody,
		hierarchy.RefCounted:     &o.refCounted,
		hierarchy.Joint:          &o.joint,
		hierarchy.Geometry:       &o.geometry,
		hierarchy.ParticleSystem: &o.particleSystem,
		hierarchy.ParticleBuffer: &o.particleBuffer,
	}
	for _, want := range caps {
		f, ok := fields[want]
		if !ok {
			panic(fmt.Sprintf("physx: %s is not a capability", want))
		}
		*f = layout.MustOffset(c, want)
	}
	return o
}

// Base is an engine object deriving from PxBase.
type Base interface {
	handle.Object
	Class() hierarchy.Class
	BasePtr() unsafe.Pointer
	ConcreteTypeName() string
}

type Actor interface {
	Base
	ActorPtr() unsafe.Pointer
	UserData() uintptr
	SetUserData(uintptr)
}

type RigidActor interface {
	Actor
	RigidActorPtr() unsafe.Pointer
	AttachShape(*Shape) error
	NumShapes() int
}

type RigidBody interface {
	RigidActor
	RigidBodyPtr() unsafe.Pointer
	SetMass(float32)
	Mass() float32
}

// RefCounted objects are shared: the engine counts references and every
// owner holds one.
type RefCounted interface {
	Base
	RefCountedPtr() unsafe.Pointer
	ReferenceCount() uint32
}

type Joint interface {
	Base
	JointPtr() unsafe.Pointer
}

type Geometry interface {
	handle.Object
	GeometryPtr() unsafe.Pointer
}

type ParticleSystem interface {
	Actor
	ParticleSystemPtr() unsafe.Pointer
	AddParticleBuffer(AnyParticleBuffer)
	ParticleBuffer() (*ParticleBuffer, bool)
}

// AnyParticleBuffer is implemented by every particle buffer kind.
type AnyParticleBuffer interface {
	handle.Object
	ParticleBufferPtr() unsafe.Pointer
	MaxParticles() int
}

type base struct {
	obj unsafe.Pointer
	off *offsets
}

func (b base) Ptr() unsafe.Pointer { return b.obj }

func (b base) Class() hierarchy.Class { return b.off.class }

func (b base) BasePtr() unsafe.Pointer { return hierarchy.At(b.obj, b.off.base) }

func (b base) ConcreteTypeName() string { return sys.BaseGetConcreteTypeName(b.BasePtr()) }

type actor struct{ base }

func (a actor) ActorPtr() unsafe.Pointer { return hierarchy.At(a.obj, a.off.actor) }

func (a actor) UserData() uintptr { return sys.ActorGetUserData(a.ActorPtr()) }

func (a actor) SetUserData(d uintptr) { sys.ActorSetUserData(a.ActorPtr(), d) }

type rigidActor struct{ actor }

func (r rigidActor) RigidActorPtr() unsafe.Pointer { return hierarchy.At(r.obj, r.off.rigidActor) }

// AttachShape attaches a shape the caller keeps a reference to.
func (r rigidActor) AttachShape(s *Shape) error {
	if !sys.RigidActorAttachShape(r.RigidActorPtr(), s.Ptr()) {
		return ErrAttachShape
	}
	return nil
}

// AttachExclusive attaches the shape and gives up the caller's reference,
// leaving the actor as its only owner.
func (r rigidActor) AttachExclusive(o *handle.Owner[*Shape]) error {
	if err := r.AttachShape(o.Get()); err != nil {
		return err
	}
	return o.Release()
}

func (r rigidActor) NumShapes() int { return int(sys.RigidActorGetNbShapes(r.RigidActorPtr())) }

type rigidBody struct{ rigidActor }

func (r rigidBody) RigidBodyPtr() unsafe.Pointer { return hierarchy.At(r.obj, r.off.rigidBody) }

func (r rigidBody) SetMass(m float32) { sys.RigidBodySetMass(r.RigidBodyPtr(), m) }

func (r rigidBody) Mass() float32 { return sys.RigidBodyGetMass(r.RigidBodyPtr()) }

type refCounted struct{ base }

func (r refCounted) RefCountedPtr() unsafe.Pointer { return hierarchy.At(r.obj, r.off.refCounted) }

func (r refCounted) ReferenceCount() uint32 {
	return sys.RefCountedGetReferenceCount(r.RefCountedPtr())
}

type joint struct{ base }

func (j joint) JointPtr() unsafe.Pointer { return hierarchy.At(j.obj, j.off.joint) }

type geometry struct {
	obj unsafe.Pointer
	off *offsets
}

func (g geometry) Ptr() unsafe.Pointer { return g.obj }

func (g geometry) GeometryPtr() unsafe.Pointer { return hierarchy.At(g.obj, g.off.geometry) }

type particleSystem struct{ actor }

func (p particleSystem) ParticleSystemPtr() unsafe.Pointer {
	return hierarchy.At(p.obj, p.off.particleSystem)
}

func (p particleSystem) AddParticleBuffer(b AnyParticleBuffer) {
	sys.ParticleSystemAddParticleBuffer(p.ParticleSystemPtr(), b.ParticleBufferPtr())
}

// ParticleBuffer borrows the first buffer attached to the system.
func (p particleSystem) ParticleBuffer() (*ParticleBuffer, bool) {
	b := sys.ParticleSystemGetParticleBuffer(p.ParticleSystemPtr())
	if b == nil {
		return nil, false
	}
	return newParticleBuffer(b), true
}

type particleBuffer struct {
	obj unsafe.Pointer
	off *offsets
}

func (b particleBuffer) Ptr() unsafe.Pointer { return b.obj }

func (b particleBuffer) ParticleBufferPtr() unsafe.Pointer {
	return hierarchy.At(b.obj, b.off.particleBuffer)
}

func (b particleBuffer) MaxParticles() int {
	return int(sys.ParticleBufferGetMaxParticles(b.ParticleBufferPtr()))
}

var (
	_ RigidBody         = (*RigidDynamic)(nil)
	_ RigidBody         = (*ArticulationLink)(nil)
	_ RigidActor        = (*RigidStatic)(nil)
	_ RefCounted        = (*Material)(nil)
	_ RefCounted        = (*Shape)(nil)
	_ Joint             = (*FixedJoint)(nil)
	_ Joint             = (*RevoluteJoint)(nil)
	_ Geometry          = (*SphereGeometry)(nil)
	_ Geometry          = (*BoxGeometry)(nil)
	_ ParticleSystem    = (*PBDParticleSystem)(nil)
	_ AnyParticleBuffer = (*ParticleBuffer)(nil)
	_ AnyParticleBuffer = (*ParticleAndDiffuseBuffer)(nil)
)

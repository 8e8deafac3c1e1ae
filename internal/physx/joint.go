package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

var (
	fixedJointOffsets    = offsetsOf(hierarchy.FixedJoint, hierarchy.Base, hierarchy.Joint)
	revoluteJointOffsets = offsetsOf(hierarchy.RevoluteJoint, hierarchy.Base, hierarchy.Joint)
)

type FixedJoint struct{ joint }

func newFixedJoint(p unsafe.Pointer) *FixedJoint {
	return &FixedJoint{joint{base{obj: p, off: fixedJointOffsets}}}
}

type RevoluteJoint struct{ joint }

func newRevoluteJoint(p unsafe.Pointer) *RevoluteJoint {
	return &RevoluteJoint{joint{base{obj: p, off: revoluteJointOffsets}}}
}

func releaseJoint(off *offsets) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) { sys.JointRelease(hierarchy.At(p, off.joint)) }
}

// actorPtr allows a nil actor, which attaches the joint to the world frame.
func actorPtr(a RigidActor) unsafe.Pointer {
	if a == nil {
		return nil
	}
	return a.RigidActorPtr()
}

func (p *Physics) NewFixedJoint(a0, a1 RigidActor) (*handle.Owner[*FixedJoint], error) {
	ptr := sys.FixedJointCreate(p.obj, actorPtr(a0), actorPtr(a1))
	o, ok := handle.FromRaw(ptr, newFixedJoint, releaseJoint(fixedJointOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.FixedJoint)
	}
	return o, nil
}

func (p *Physics) NewRevoluteJoint(a0, a1 RigidActor) (*handle.Owner[*RevoluteJoint], error) {
	ptr := sys.RevoluteJointCreate(p.obj, actorPtr(a0), actorPtr(a1))
	o, ok := handle.FromRaw(ptr, newRevoluteJoint, releaseJoint(revoluteJointOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.RevoluteJoint)
	}
	return o, nil
}

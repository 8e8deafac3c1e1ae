package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

var (
	rigidDynamicOffsets = offsetsOf(hierarchy.RigidDynamic,
		hierarchy.Base, hierarchy.Actor, hierarchy.RigidActor, hierarchy.RigidBody)
	rigidStaticOffsets = offsetsOf(hierarchy.RigidStatic,
		hierarchy.Base, hierarchy.Actor, hierarchy.RigidActor)
	articulationLinkOffsets = offsetsOf(hierarchy.ArticulationLink,
		hierarchy.Base, hierarchy.Actor, hierarchy.RigidActor, hierarchy.RigidBody)
)

type RigidDynamic struct{ rigidBody }

func newRigidDynamic(p unsafe.Pointer) *RigidDynamic {
	return &RigidDynamic{rigidBody{rigidActor{actor{base{obj: p, off: rigidDynamicOffsets}}}}}
}

type RigidStatic struct{ rigidActor }

func newRigidStatic(p unsafe.Pointer) *RigidStatic {
	return &RigidStatic{rigidActor{actor{base{obj: p, off: rigidStaticOffsets}}}}
}

// ArticulationLink is only ever borrowed: links belong to their
// articulation.
type ArticulationLink struct{ rigidBody }

func newArticulationLink(p unsafe.Pointer) *ArticulationLink {
	return &ArticulationLink{rigidBody{rigidActor{actor{base{obj: p, off: articulationLinkOffsets}}}}}
}

// releaseActor returns the release function of an actor class.
func releaseActor(off *offsets) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) {
		sys.ActorRelease(hierarchy.At(p, off.actor))
	}
}

func (p *Physics) NewRigidDynamic(pose sys.Transform) (*handle.Owner[*RigidDynamic], error) {
	o, ok := handle.FromRaw(sys.PhysicsCreateRigidDynamic(p.obj, pose), newRigidDynamic, releaseActor(rigidDynamicOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.RigidDynamic)
	}
	return o, nil
}

func (p *Physics) NewRigidStatic(pose sys.Transform) (*handle.Owner[*RigidStatic], error) {
	o, ok := handle.FromRaw(sys.PhysicsCreateRigidStatic(p.obj, pose), newRigidStatic, releaseActor(rigidStaticOffsets))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.RigidStatic)
	}
	return o, nil
}

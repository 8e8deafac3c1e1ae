package physx

import (
	"fmt"
	"unsafe"

	"github.com/san-kum/pxbind/internal/handle"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/physx/sys"
)

type Scene struct {
	obj unsafe.Pointer
}

func (s *Scene) Ptr() unsafe.Pointer { return s.obj }

func wrapScene(p unsafe.Pointer) *Scene { return &Scene{obj: p} }

// NewScene creates an empty scene. Releasing it removes its actors without
// releasing them.
func (p *Physics) NewScene(gravity sys.Vec3) (*handle.Owner[*Scene], error) {
	o, ok := handle.FromRaw(sys.PhysicsCreateScene(p.obj, gravity), wrapScene, sys.SceneRelease)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCreate, hierarchy.Scene)
	}
	return o, nil
}

func (s *Scene) AddActor(a Actor) error {
	if !sys.SceneAddActor(s.obj, a.ActorPtr()) {
		return fmt.Errorf("%w: %s", ErrAddActor, a.Class())
	}
	return nil
}

// actorViews maps the concrete class of a scene actor to its wrapper.
var actorViews = map[hierarchy.Class]func(unsafe.Pointer) Actor{
	hierarchy.RigidDynamic:      func(p unsafe.Pointer) Actor { return newRigidDynamic(p) },
	hierarchy.RigidStatic:       func(p unsafe.Pointer) Actor { return newRigidStatic(p) },
	hierarchy.ArticulationLink:  func(p unsafe.Pointer) Actor { return newArticulationLink(p) },
	hierarchy.PBDParticleSystem: func(p unsafe.Pointer) Actor { return newPBDParticleSystem(p) },
}

// Actors borrows the actors currently in the scene. The views stay valid
// until the actor is released.
func (s *Scene) Actors() ([]Actor, error) {
	raw := sys.SceneGetActors(s.obj)
	out := make([]Actor, 0, len(raw))
	for _, p := range raw {
		basePtr := hierarchy.At(p, layout.MustOffset(hierarchy.Actor, hierarchy.Base))
		class := hierarchy.Class(sys.BaseGetConcreteTypeName(basePtr))
		wrap, ok := actorViews[class]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownClass, class)
		}
		obj, ok := layout.Downcast(p, class, hierarchy.Actor)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an actor", ErrUnknownClass, class)
		}
		out = append(out, wrap(obj))
	}
	return out, nil
}

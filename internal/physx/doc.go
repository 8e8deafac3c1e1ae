// Package physx wraps engine objects in Go types.
//
// Each wrapper holds a raw pointer and exposes the engine base classes it
// derives from as capabilities. A capability is an interface (Actor,
// RigidBody, RefCounted, ...) whose XxxPtr method returns the pointer to
// that base subobject, computed from the offsets in the hierarchy table.
// Capability interfaces embed their parent, so a type offering RigidBody
// necessarily offers RigidActor, Actor and Base as well.
//
// Factories return a *handle.Owner. Values obtained from Owner.Get or from
// queries such as Scene.Actors are borrowed views; they carry no release
// and must not outlive the object.
package physx

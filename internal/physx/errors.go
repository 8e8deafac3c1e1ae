package physx

import "errors"

var (
	// ErrCreate is returned when the engine hands back a null object.
	ErrCreate = errors.New("physx: engine failed to create object")
	// ErrNoCuda is returned when no CUDA context could be created.
	ErrNoCuda       = errors.New("physx: no CUDA context available")
	ErrAddActor     = errors.New("physx: actor could not be added to scene")
	ErrAttachShape  = errors.New("physx: shape could not be attached")
	ErrUnknownClass = errors.New("physx: no wrapper for engine class")
)

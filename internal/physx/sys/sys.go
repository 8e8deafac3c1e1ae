// Package sys is the raw engine API: plain functions over unsafe pointers,
// one per engine entry point the wrappers need.
//
// Built with the physx tag it calls the C adapter produced by pxbuild.
// Without it, a small in-process stand-in engine implements the same API so
// ownership and capability code can be exercised without the native
// archives.
package sys

// Vec3 mirrors PxVec3.
type Vec3 struct {
	X, Y, Z float32
}

// Quat mirrors PxQuat.
type Quat struct {
	X, Y, Z, W float32
}

// Transform mirrors PxTransform.
type Transform struct {
	Q Quat
	P Vec3
}

func Identity() Transform {
	return Transform{Q: Quat{W: 1}}
}

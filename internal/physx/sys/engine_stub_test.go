//go:build !physx

package sys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandIn_SharedShapeLifetime(t *testing.T) {
	f := CreateFoundation()
	p := CreatePhysics(f)
	defer FoundationRelease(f)
	defer PhysicsRelease(p)

	mat := PhysicsCreateMaterial(p, 0.5, 0.5, 0.1)
	geom := SphereGeometryNew(1)
	shape := PhysicsCreateShape(p, geom, mat, false)
	GeometryDelete(geom)

	assert.Equal(t, uint32(2), RefCountedGetReferenceCount(mat))

	actor := PhysicsCreateRigidDynamic(p, Identity())
	require.True(t, RigidActorAttachShape(actor, shape))
	assert.Equal(t, uint32(2), RefCountedGetReferenceCount(shape))

	RefCountedRelease(shape)
	RefCountedRelease(mat)
	assert.True(t, Alive(shape), "the actor still references the shape")
	assert.True(t, Alive(mat), "the shape still references the material")

	ActorRelease(actor)
	assert.False(t, Alive(shape))
	assert.False(t, Alive(mat))
	assert.Equal(t, 1, Releases(shape))
	assert.Equal(t, 1, Releases(mat))
}

func TestStandIn_SceneActors(t *testing.T) {
	f := CreateFoundation()
	p := CreatePhysics(f)
	s := PhysicsCreateScene(p, Vec3{Y: -9.81})

	a := PhysicsCreateRigidDynamic(p, Identity())
	b := PhysicsCreateRigidStatic(p, Identity())
	require.True(t, SceneAddActor(s, a))
	require.True(t, SceneAddActor(s, b))
	assert.False(t, SceneAddActor(s, a), "an actor belongs to one scene")
	assert.Len(t, SceneGetActors(s), 2)

	ActorRelease(a)
	assert.Len(t, SceneGetActors(s), 1)
	assert.Equal(t, "PxRigidStatic", BaseGetConcreteTypeName(SceneGetActors(s)[0]))

	SceneRelease(s)
	assert.True(t, Alive(b))
	ActorRelease(b)
	PhysicsRelease(p)
	FoundationRelease(f)
}

func TestStandIn_UseAfterRelease(t *testing.T) {
	f := CreateFoundation()
	FoundationRelease(f)
	assert.Panics(t, func() { FoundationRelease(f) })
	assert.Equal(t, 1, Releases(f))
}

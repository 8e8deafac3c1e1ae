//go:build physx

package sys

/*
#cgo LDFLAGS: -lphysx_api -lphysx
#cgo linux,!android windows LDFLAGS: -lstdc++
#cgo android darwin ios freebsd LDFLAGS: -lc++
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

// Head of PxActor: the polymorphic PxBase subobject comes before userData.
typedef struct {
	void* vtable_;
	uint16_t concreteType;
	uint16_t baseFlags;
	void* userData;
} pxbind_PxActorHead;

typedef struct { float x, y, z; } PxVec3;
typedef struct { float x, y, z, w; } PxQuat;
typedef struct { PxQuat q; PxVec3 p; } PxTransform;

extern void* physx_create_foundation();
extern void* physx_create_physics(void* foundation);
extern void PxFoundation_release_mut(void* self);
extern void PxPhysics_release_mut(void* self);

extern void const* PxPhysics_getTolerancesScale(void const* self);
extern void* PxSceneDesc_new_alloc(void const* scale);
extern void PxSceneDesc_delete(void* self);
extern void* PxPhysics_createScene_mut(void* self, void const* desc);
extern void PxScene_setGravity_mut(void* self, PxVec3 const* gravity);
extern void PxScene_release_mut(void* self);
extern bool PxScene_addActor_mut(void* self, void* actor, void const* bvh);
extern uint32_t PxScene_getNbActors(void const* self, uint16_t types);
extern uint32_t PxScene_getActors(void const* self, uint16_t types, void** buffer, uint32_t size, uint32_t start);

extern void* PxPhysics_createRigidDynamic_mut(void* self, PxTransform const* pose);
extern void* PxPhysics_createRigidStatic_mut(void* self, PxTransform const* pose);
extern void PxActor_release_mut(void* self);
extern char const* PxActor_getName(void const* self);
extern bool PxRigidActor_attachShape_mut(void* self, void* shape);
extern uint32_t PxRigidActor_getNbShapes(void const* self);
extern void PxRigidBody_setMass_mut(void* self, float mass);
extern float PxRigidBody_getMass(void const* self);

extern void* PxPhysics_createMaterial_mut(void* self, float staticFriction, float dynamicFriction, float restitution);
extern void* PxPhysics_createShape_mut(void* self, void const* geometry, void const* material, bool exclusive, uint8_t flags);
extern void PxRefCounted_release_mut(void* self);
extern void PxRefCounted_acquireReference_mut(void* self);
extern uint32_t PxRefCounted_getReferenceCount(void const* self);
extern char const* PxBase_getConcreteTypeName(void const* self);

extern void* phys_PxFixedJointCreate(void* physics, void* actor0, PxTransform const* frame0, void* actor1, PxTransform const* frame1);
extern void* phys_PxRevoluteJointCreate(void* physics, void* actor0, PxTransform const* frame0, void* actor1, PxTransform const* frame1);
extern void PxJoint_release_mut(void* self);

extern void* PxSphereGeometry_new_alloc(float radius);
extern void* PxBoxGeometry_new_alloc(float hx, float hy, float hz);
extern void PxGeometry_delete(void* self);

extern void* PxCudaContextManagerDesc_new_alloc();
extern void PxCudaContextManagerDesc_delete(void* self);
extern void* phys_PxCreateCudaContextManager(void* foundation, void const* desc, void* profiler, bool launchSynchronous);
extern void PxCudaContextManager_release_mut(void* self);

extern void* PxPhysics_createPBDParticleSystem_mut(void* self, void* cuda, uint32_t maxNeighborhood);
extern void PxParticleSystem_addParticleBuffer_mut(void* self, void* buffer);
extern void* PxParticleSystem_getParticleBuffer(void* self);
extern void* PxPhysics_createParticleBuffer_mut(void* self, uint32_t maxParticles, uint32_t maxVolumes, void* cuda);
extern void* PxPhysics_createParticleAndDiffuseBuffer_mut(void* self, uint32_t maxParticles, uint32_t maxVolumes, uint32_t maxDiffuse, void* cuda);
extern void PxParticleBuffer_release_mut(void* self);
extern uint32_t PxParticleBuffer_getMaxParticles(void const* self);
*/
import "C"
import "unsafe"

// Actor type filter for the scene actor queries: rigid static | rigid dynamic.
const rigidActorTypes = C.uint16_t(1 | 2)

func cTransform(t Transform) C.PxTransform {
	return C.PxTransform{
		q: C.PxQuat{x: C.float(t.Q.X), y: C.float(t.Q.Y), z: C.float(t.Q.Z), w: C.float(t.Q.W)},
		p: C.PxVec3{x: C.float(t.P.X), y: C.float(t.P.Y), z: C.float(t.P.Z)},
	}
}

func CreateFoundation() unsafe.Pointer { return C.physx_create_foundation() }

func FoundationRelease(f unsafe.Pointer) { C.PxFoundation_release_mut(f) }

func CreatePhysics(foundation unsafe.Pointer) unsafe.Pointer {
	return C.physx_create_physics(foundation)
}

func PhysicsRelease(p unsafe.Pointer) { C.PxPhysics_release_mut(p) }

func PhysicsCreateScene(physics unsafe.Pointer, gravity Vec3) unsafe.Pointer {
	desc := C.PxSceneDesc_new_alloc(C.PxPhysics_getTolerancesScale(physics))
	defer C.PxSceneDesc_delete(desc)
	scene := C.PxPhysics_createScene_mut(physics, desc)
	if scene == nil {
		return nil
	}
	g := C.PxVec3{x: C.float(gravity.X), y: C.float(gravity.Y), z: C.float(gravity.Z)}
	C.PxScene_setGravity_mut(scene, &g)
	return scene
}

func SceneRelease(s unsafe.Pointer) { C.PxScene_release_mut(s) }

func SceneAddActor(scene, actor unsafe.Pointer) bool {
	return bool(C.PxScene_addActor_mut(scene, actor, nil))
}

func SceneGetActors(scene unsafe.Pointer) []unsafe.Pointer {
	n := C.PxScene_getNbActors(scene, rigidActorTypes)
	if n == 0 {
		return nil
	}
	buf := make([]unsafe.Pointer, n)
	got := C.PxScene_getActors(scene, rigidActorTypes, (*unsafe.Pointer)(unsafe.Pointer(&buf[0])), n, 0)
	return buf[:got]
}

func PhysicsCreateRigidDynamic(physics unsafe.Pointer, pose Transform) unsafe.Pointer {
	t := cTransform(pose)
	return C.PxPhysics_createRigidDynamic_mut(physics, &t)
}

func PhysicsCreateRigidStatic(physics unsafe.Pointer, pose Transform) unsafe.Pointer {
	t := cTransform(pose)
	return C.PxPhysics_createRigidStatic_mut(physics, &t)
}

func ActorRelease(a unsafe.Pointer) { C.PxActor_release_mut(a) }

// actorUserDataOffset is where PxActor::userData sits, past the vtable
// pointer and the PxBase fields.
const actorUserDataOffset = 2 * unsafe.Sizeof(uintptr(0))

func _() {
	// Fails to compile when the mirrored header disagrees.
	var x [1]struct{}
	_ = x[actorUserDataOffset-unsafe.Offsetof(C.pxbind_PxActorHead{}.userData)]
	_ = x[unsafe.Offsetof(C.pxbind_PxActorHead{}.userData)-actorUserDataOffset]
}

func ActorGetUserData(a unsafe.Pointer) uintptr {
	return *(*uintptr)(unsafe.Add(a, actorUserDataOffset))
}

func ActorSetUserData(a unsafe.Pointer, data uintptr) {
	*(*uintptr)(unsafe.Add(a, actorUserDataOffset)) = data
}

func RigidActorAttachShape(actor, shape unsafe.Pointer) bool {
	return bool(C.PxRigidActor_attachShape_mut(actor, shape))
}

func RigidActorGetNbShapes(actor unsafe.Pointer) uint32 {
	return uint32(C.PxRigidActor_getNbShapes(actor))
}

func RigidBodySetMass(body unsafe.Pointer, mass float32) {
	C.PxRigidBody_setMass_mut(body, C.float(mass))
}

func RigidBodyGetMass(body unsafe.Pointer) float32 {
	return float32(C.PxRigidBody_getMass(body))
}

func PhysicsCreateMaterial(physics unsafe.Pointer, static, dynamic, restitution float32) unsafe.Pointer {
	return C.PxPhysics_createMaterial_mut(physics, C.float(static), C.float(dynamic), C.float(restitution))
}

// Scene query, simulation and visualization shape flags.
const defaultShapeFlags = C.uint8_t(1 | 2 | 8)

func PhysicsCreateShape(physics, geometry, material unsafe.Pointer, exclusive bool) unsafe.Pointer {
	return C.PxPhysics_createShape_mut(physics, geometry, material, C.bool(exclusive), defaultShapeFlags)
}

func RefCountedRelease(p unsafe.Pointer) { C.PxRefCounted_release_mut(p) }

func RefCountedAcquireReference(p unsafe.Pointer) { C.PxRefCounted_acquireReference_mut(p) }

func RefCountedGetReferenceCount(p unsafe.Pointer) uint32 {
	return uint32(C.PxRefCounted_getReferenceCount(p))
}

func BaseGetConcreteTypeName(p unsafe.Pointer) string {
	return C.GoString(C.PxBase_getConcreteTypeName(p))
}

func FixedJointCreate(physics, actor0, actor1 unsafe.Pointer) unsafe.Pointer {
	id := cTransform(Identity())
	return C.phys_PxFixedJointCreate(physics, actor0, &id, actor1, &id)
}

func RevoluteJointCreate(physics, actor0, actor1 unsafe.Pointer) unsafe.Pointer {
	id := cTransform(Identity())
	return C.phys_PxRevoluteJointCreate(physics, actor0, &id, actor1, &id)
}

func JointRelease(j unsafe.Pointer) { C.PxJoint_release_mut(j) }

func SphereGeometryNew(radius float32) unsafe.Pointer {
	return C.PxSphereGeometry_new_alloc(C.float(radius))
}

func BoxGeometryNew(hx, hy, hz float32) unsafe.Pointer {
	return C.PxBoxGeometry_new_alloc(C.float(hx), C.float(hy), C.float(hz))
}

func GeometryDelete(g unsafe.Pointer) { C.PxGeometry_delete(g) }

// CreateCudaContextManager returns nil when no CUDA device is usable.
func CreateCudaContextManager(foundation unsafe.Pointer) unsafe.Pointer {
	desc := C.PxCudaContextManagerDesc_new_alloc()
	defer C.PxCudaContextManagerDesc_delete(desc)
	return C.phys_PxCreateCudaContextManager(foundation, desc, nil, false)
}

func CudaContextManagerRelease(c unsafe.Pointer) { C.PxCudaContextManager_release_mut(c) }

func PhysicsCreatePBDParticleSystem(physics, cuda unsafe.Pointer, maxNeighborhood uint32) unsafe.Pointer {
	return C.PxPhysics_createPBDParticleSystem_mut(physics, cuda, C.uint32_t(maxNeighborhood))
}

func ParticleSystemAddParticleBuffer(ps, buf unsafe.Pointer) {
	C.PxParticleSystem_addParticleBuffer_mut(ps, buf)
}

func ParticleSystemGetParticleBuffer(ps unsafe.Pointer) unsafe.Pointer {
	return C.PxParticleSystem_getParticleBuffer(ps)
}

func PhysicsCreateParticleBuffer(physics unsafe.Pointer, maxParticles, maxVolumes uint32, cuda unsafe.Pointer) unsafe.Pointer {
	return C.PxPhysics_createParticleBuffer_mut(physics, C.uint32_t(maxParticles), C.uint32_t(maxVolumes), cuda)
}

func PhysicsCreateParticleAndDiffuseBuffer(physics unsafe.Pointer, maxParticles, maxVolumes, maxDiffuse uint32, cuda unsafe.Pointer) unsafe.Pointer {
	return C.PxPhysics_createParticleAndDiffuseBuffer_mut(physics, C.uint32_t(maxParticles), C.uint32_t(maxVolumes), C.uint32_t(maxDiffuse), cuda)
}

func ParticleBufferRelease(b unsafe.Pointer) { C.PxParticleBuffer_release_mut(b) }

func ParticleBufferGetMaxParticles(b unsafe.Pointer) uint32 {
	return uint32(C.PxParticleBuffer_getMaxParticles(b))
}

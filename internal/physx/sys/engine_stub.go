//go:build !physx

package sys

import (
	"fmt"
	"sync"
	"unsafe"
)

// object is the stand-in for any engine object. Its address is the handle,
// and every capability view of it is at offset zero, as for the real
// single-inheritance classes.
type object struct {
	userData uintptr
	class    string
	refs     int32
	mass     float32
	gravity  Vec3
	pose     Transform
	max      uint32
	shapes   []unsafe.Pointer
	actors   []unsafe.Pointer
	buffers  []unsafe.Pointer
	material unsafe.Pointer
	scene    unsafe.Pointer
}

type engine struct {
	mu       sync.Mutex
	live     map[unsafe.Pointer]*object
	dead     map[unsafe.Pointer]*object
	releases map[unsafe.Pointer]int
}

var std = newEngine()

func newEngine() *engine {
	return &engine{
		live:     make(map[unsafe.Pointer]*object),
		dead:     make(map[unsafe.Pointer]*object),
		releases: make(map[unsafe.Pointer]int),
	}
}

func (e *engine) create(class string, init func(o *object)) unsafe.Pointer {
	o := &object{class: class, refs: 1, mass: 1}
	if init != nil {
		init(o)
	}
	p := unsafe.Pointer(o)
	e.mu.Lock()
	e.live[p] = o
	e.mu.Unlock()
	return p
}

// get returns the live object at p. Using a released or foreign pointer
// crashes, like the engine would.
func (e *engine) get(p unsafe.Pointer) *object {
	o, ok := e.live[p]
	if !ok {
		if d, dead := e.dead[p]; dead {
			panic(fmt.Sprintf("sys: use of released %s %p", d.class, p))
		}
		panic(fmt.Sprintf("sys: unknown object %p", p))
	}
	return o
}

func (e *engine) destroy(p unsafe.Pointer) {
	o := e.get(p)
	e.releases[p]++
	delete(e.live, p)
	e.dead[p] = o
}

// decref is a release call on a reference counted object.
func (e *engine) decref(p unsafe.Pointer) {
	e.releases[p]++
	e.unref(p)
}

// unref drops one reference; references held by the engine itself go
// through here without counting as a release call.
func (e *engine) unref(p unsafe.Pointer) {
	o := e.get(p)
	o.refs--
	if o.refs > 0 {
		return
	}
	delete(e.live, p)
	e.dead[p] = o
	if o.material != nil {
		if _, ok := e.live[o.material]; ok {
			e.unref(o.material)
		}
	}
}

func (e *engine) locked(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func CreateFoundation() unsafe.Pointer { return std.create("PxFoundation", nil) }

func FoundationRelease(f unsafe.Pointer) { std.locked(func() { std.destroy(f) }) }

func CreatePhysics(foundation unsafe.Pointer) unsafe.Pointer {
	std.locked(func() { std.get(foundation) })
	return std.create("PxPhysics", nil)
}

func PhysicsRelease(p unsafe.Pointer) { std.locked(func() { std.destroy(p) }) }

func PhysicsCreateScene(physics unsafe.Pointer, gravity Vec3) unsafe.Pointer {
	std.locked(func() { std.get(physics) })
	return std.create("PxScene", func(o *object) { o.gravity = gravity })
}

// SceneRelease removes the remaining actors from the scene without
// releasing them.
func SceneRelease(s unsafe.Pointer) {
	std.locked(func() {
		for _, a := range std.get(s).actors {
			if o, ok := std.live[a]; ok {
				o.scene = nil
			}
		}
		std.destroy(s)
	})
}

func SceneAddActor(scene, actor unsafe.Pointer) bool {
	ok := false
	std.locked(func() {
		s, a := std.get(scene), std.get(actor)
		if a.scene != nil {
			return
		}
		a.scene = scene
		s.actors = append(s.actors, actor)
		ok = true
	})
	return ok
}

func SceneGetActors(scene unsafe.Pointer) []unsafe.Pointer {
	var out []unsafe.Pointer
	std.locked(func() {
		out = append(out, std.get(scene).actors...)
	})
	return out
}

func PhysicsCreateRigidDynamic(physics unsafe.Pointer, pose Transform) unsafe.Pointer {
	std.locked(func() { std.get(physics) })
	return std.create("PxRigidDynamic", func(o *object) { o.pose = pose })
}

func PhysicsCreateRigidStatic(physics unsafe.Pointer, pose Transform) unsafe.Pointer {
	std.locked(func() { std.get(physics) })
	return std.create("PxRigidStatic", func(o *object) { o.pose = pose })
}

// ActorRelease removes the actor from its scene and drops the references
// it holds on attached shapes.
func ActorRelease(a unsafe.Pointer) {
	std.locked(func() {
		o := std.get(a)
		if o.scene != nil {
			if s, ok := std.live[o.scene]; ok {
				s.actors = remove(s.actors, a)
			}
		}
		for _, sh := range o.shapes {
			std.unref(sh)
		}
		std.destroy(a)
	})
}

func ActorGetUserData(a unsafe.Pointer) uintptr {
	var d uintptr
	std.locked(func() { d = std.get(a).userData })
	return d
}

func ActorSetUserData(a unsafe.Pointer, data uintptr) {
	std.locked(func() { std.get(a).userData = data })
}

func RigidActorAttachShape(actor, shape unsafe.Pointer) bool {
	std.locked(func() {
		a, s := std.get(actor), std.get(shape)
		s.refs++
		a.shapes = append(a.shapes, shape)
	})
	return true
}

func RigidActorGetNbShapes(actor unsafe.Pointer) uint32 {
	var n uint32
	std.locked(func() { n = uint32(len(std.get(actor).shapes)) })
	return n
}

func RigidBodySetMass(body unsafe.Pointer, mass float32) {
	std.locked(func() { std.get(body).mass = mass })
}

func RigidBodyGetMass(body unsafe.Pointer) float32 {
	var m float32
	std.locked(func() { m = std.get(body).mass })
	return m
}

func PhysicsCreateMaterial(physics unsafe.Pointer, static, dynamic, restitution float32) unsafe.Pointer {
	std.locked(func() { std.get(physics) })
	return std.create("PxMaterial", nil)
}

func PhysicsCreateShape(physics, geometry, material unsafe.Pointer, exclusive bool) unsafe.Pointer {
	std.locked(func() {
		std.get(physics)
		std.get(geometry)
		std.get(material).refs++
	})
	return std.create("PxShape", func(o *object) { o.material = material })
}

func RefCountedRelease(p unsafe.Pointer) { std.locked(func() { std.decref(p) }) }

func RefCountedAcquireReference(p unsafe.Pointer) {
	std.locked(func() { std.get(p).refs++ })
}

func RefCountedGetReferenceCount(p unsafe.Pointer) uint32 {
	var n int32
	std.locked(func() { n = std.get(p).refs })
	return uint32(n)
}

func BaseGetConcreteTypeName(p unsafe.Pointer) string {
	var name string
	std.locked(func() { name = std.get(p).class })
	return name
}

func FixedJointCreate(physics, actor0, actor1 unsafe.Pointer) unsafe.Pointer {
	return joint("PxFixedJoint", physics, actor0, actor1)
}

func RevoluteJointCreate(physics, actor0, actor1 unsafe.Pointer) unsafe.Pointer {
	return joint("PxRevoluteJoint", physics, actor0, actor1)
}

func joint(class string, physics, actor0, actor1 unsafe.Pointer) unsafe.Pointer {
	std.locked(func() {
		std.get(physics)
		if actor0 != nil {
			std.get(actor0)
		}
		if actor1 != nil {
			std.get(actor1)
		}
	})
	return std.create(class, nil)
}

func JointRelease(j unsafe.Pointer) { std.locked(func() { std.destroy(j) }) }

func SphereGeometryNew(radius float32) unsafe.Pointer {
	return std.create("PxSphereGeometry", nil)
}

func BoxGeometryNew(hx, hy, hz float32) unsafe.Pointer {
	return std.create("PxBoxGeometry", nil)
}

func GeometryDelete(g unsafe.Pointer) { std.locked(func() { std.destroy(g) }) }

func CreateCudaContextManager(foundation unsafe.Pointer) unsafe.Pointer {
	std.locked(func() { std.get(foundation) })
	return std.create("PxCudaContextManager", nil)
}

func CudaContextManagerRelease(c unsafe.Pointer) { std.locked(func() { std.destroy(c) }) }

func PhysicsCreatePBDParticleSystem(physics, cuda unsafe.Pointer, maxNeighborhood uint32) unsafe.Pointer {
	std.locked(func() {
		std.get(physics)
		std.get(cuda)
	})
	return std.create("PxPBDParticleSystem", func(o *object) { o.max = maxNeighborhood })
}

func ParticleSystemAddParticleBuffer(ps, buf unsafe.Pointer) {
	std.locked(func() {
		p := std.get(ps)
		std.get(buf)
		p.buffers = append(p.buffers, buf)
	})
}

// ParticleSystemGetParticleBuffer returns the first attached buffer, nil
// when there is none.
func ParticleSystemGetParticleBuffer(ps unsafe.Pointer) unsafe.Pointer {
	var b unsafe.Pointer
	std.locked(func() {
		if bufs := std.get(ps).buffers; len(bufs) > 0 {
			b = bufs[0]
		}
	})
	return b
}

func PhysicsCreateParticleBuffer(physics unsafe.Pointer, maxParticles, maxVolumes uint32, cuda unsafe.Pointer) unsafe.Pointer {
	std.locked(func() {
		std.get(physics)
		std.get(cuda)
	})
	return std.create("PxParticleBuffer", func(o *object) { o.max = maxParticles })
}

func PhysicsCreateParticleAndDiffuseBuffer(physics unsafe.Pointer, maxParticles, maxVolumes, maxDiffuse uint32, cuda unsafe.Pointer) unsafe.Pointer {
	std.locked(func() {
		std.get(physics)
		std.get(cuda)
	})
	return std.create("PxParticleAndDiffuseBuffer", func(o *object) { o.max = maxParticles })
}

// ParticleBufferRelease detaches the buffer from every particle system.
func ParticleBufferRelease(b unsafe.Pointer) {
	std.locked(func() {
		std.get(b)
		for _, o := range std.live {
			o.buffers = remove(o.buffers, b)
		}
		std.destroy(b)
	})
}

func ParticleBufferGetMaxParticles(b unsafe.Pointer) uint32 {
	var n uint32
	std.locked(func() { n = std.get(b).max })
	return n
}

func remove(list []unsafe.Pointer, p unsafe.Pointer) []unsafe.Pointer {
	out := list[:0]
	for _, q := range list {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}

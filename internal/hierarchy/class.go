package hierarchy

// Class names an engine C++ class.
type Class string

// PxBase tree.
const (
	Base                               Class = "PxBase"
	RefCounted                         Class = "PxRefCounted"
	Actor                              Class = "PxActor"
	RigidActor                         Class = "PxRigidActor"
	RigidStatic                        Class = "PxRigidStatic"
	RigidBody                          Class = "PxRigidBody"
	RigidDynamic                       Class = "PxRigidDynamic"
	ArticulationLink                   Class = "PxArticulationLink"
	Aggregate                          Class = "PxAggregate"
	ArticulationReducedCoordinate      Class = "PxArticulationReducedCoordinate"
	ArticulationJointReducedCoordinate Class = "PxArticulationJointReducedCoordinate"
	BVH                                Class = "PxBVH"
	Constraint                         Class = "PxConstraint"
	ConvexMesh                         Class = "PxConvexMesh"
	HeightField                        Class = "PxHeightField"
	TriangleMesh                       Class = "PxTriangleMesh"
	PruningStructure                   Class = "PxPruningStructure"
	Material                           Class = "PxMaterial"
	Shape                              Class = "PxShape"
)

// Joints.
const (
	Joint          Class = "PxJoint"
	ContactJoint   Class = "PxContactJoint"
	D6Joint        Class = "PxD6Joint"
	DistanceJoint  Class = "PxDistanceJoint"
	FixedJoint     Class = "PxFixedJoint"
	PrismaticJoint Class = "PxPrismaticJoint"
	RevoluteJoint  Class = "PxRevoluteJoint"
	SphericalJoint Class = "PxSphericalJoint"
)

// Particles.
const (
	ParticleSystem               Class = "PxParticleSystem"
	PBDParticleSystem            Class = "PxPBDParticleSystem"
	ParticleMaterial             Class = "PxParticleMaterial"
	PBDMaterial                  Class = "PxPBDMaterial"
	ParticleBuffer               Class = "PxParticleBuffer"
	ParticleAndDiffuseBuffer     Class = "PxParticleAndDiffuseBuffer"
	ParticleBufferDesc           Class = "PxParticleBufferDesc"
	ParticleAndDiffuseBufferDesc Class = "PxParticleAndDiffuseBufferDesc"
)

// Character controllers.
const (
	ControllerManager     Class = "PxControllerManager"
	Controller            Class = "PxController"
	CapsuleController     Class = "PxCapsuleController"
	BoxController         Class = "PxBoxController"
	ControllerDesc        Class = "PxControllerDesc"
	CapsuleControllerDesc Class = "PxCapsuleControllerDesc"
	BoxControllerDesc     Class = "PxBoxControllerDesc"
)

// Geometries.
const (
	Geometry             Class = "PxGeometry"
	SphereGeometry       Class = "PxSphereGeometry"
	BoxGeometry          Class = "PxBoxGeometry"
	CapsuleGeometry      Class = "PxCapsuleGeometry"
	PlaneGeometry        Class = "PxPlaneGeometry"
	HeightFieldGeometry  Class = "PxHeightFieldGeometry"
	TriangleMeshGeometry Class = "PxTriangleMeshGeometry"
	ConvexMeshGeometry   Class = "PxConvexMeshGeometry"
)

// Standalone classes: the main engine objects, math types and caches. They
// only support themselves.
const (
	Foundation         Class = "PxFoundation"
	Physics            Class = "PxPhysics"
	Scene              Class = "PxScene"
	Pvd                Class = "PxPvd"
	PvdSceneClient     Class = "PxPvdSceneClient"
	PvdTransport       Class = "PxPvdTransport"
	Cooking            Class = "PxCooking"
	CudaContextManager Class = "PxCudaContextManager"
	ArticulationCache  Class = "PxArticulationCache"
	Transform          Class = "PxTransform"
	Quat               Class = "PxQuat"
	Vec3               Class = "PxVec3"
	ExtendedVec3       Class = "PxExtendedVec3"
	MeshScale          Class = "PxMeshScale"
	Bounds3            Class = "PxBounds3"
)

package component

import (
	"scriptbridge/internal/ecs"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	CRigidBody      ecs.ComponentType = 5
	CSphereCollider ecs.ComponentType = 6
)

// BodyType is fixed when the rigid body is created.
type BodyType int

const (
	BodyStatic BodyType = iota
	BodyDynamic
)

// RigidBody is the physics state of an entity. Kinematic bodies are moved
// by scripts only; static bodies never move.
type RigidBody struct {
	BodyType        BodyType
	Kinematic       bool
	Mass            float32
	GravityDisabled bool
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3 // degrees per second
}

func (RigidBody) Type() ecs.ComponentType { return CRigidBody }

// NewRigidBody returns a dynamic body of unit mass at rest.
func NewRigidBody() RigidBody {
	return RigidBody{BodyType: BodyDynamic, Mass: 1}
}

// Simulated reports whether integration moves this body.
func (rb RigidBody) Simulated() bool {
	return rb.BodyType == BodyDynamic && !rb.Kinematic
}

// SphereCollider is a sphere centred on the transform position plus Offset.
// Its radius is scaled by the transform's largest scale axis.
type SphereCollider struct {
	Radius  float32
	Offset  mgl32.Vec3
	Trigger bool
}

func (SphereCollider) Type() ecs.ComponentType { return CSphereCollider }

// NewSphereCollider returns a solid collider of radius 0.5.
func NewSphereCollider() SphereCollider {
	return SphereCollider{Radius: 0.5}
}

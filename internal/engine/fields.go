package engine

import (
	"scriptbridge/internal/bridge"
	"scriptbridge/internal/component"
	"scriptbridge/internal/ecs"

	"github.com/go-gl/mathgl/mgl32"
)

// componentTypes maps boundary type tokens to the store's component types.
var componentTypes = map[bridge.TypeToken]ecs.ComponentType{
	bridge.NameType:           component.CName,
	bridge.TransformType:      component.CTransform,
	bridge.MeshType:           component.CMesh,
	bridge.ScriptType:         component.CScript,
	bridge.RigidBodyType:      component.CRigidBody,
	bridge.SphereColliderType: component.CSphereCollider,
}

// defaults builds the value a component starts with when a script attaches it.
var defaults = map[ecs.ComponentType]func() ecs.Component{
	component.CName:           func() ecs.Component { return component.Name{Name: bridge.DefaultEntityName} },
	component.CTransform:      func() ecs.Component { return component.NewTransform(mgl32.Vec3{}) },
	component.CMesh:           func() ecs.Component { return component.Mesh{} },
	component.CScript:         func() ecs.Component { return component.Script{} },
	component.CRigidBody:      func() ecs.Component { return component.NewRigidBody() },
	component.CSphereCollider: func() ecs.Component { return component.NewSphereCollider() },
}

// Component values are immutable in the store: setters return the updated
// copy, which the engine writes back with World.Add.

type vectorField struct {
	comp ecs.ComponentType
	get  func(ecs.Component) mgl32.Vec3
	set  func(ecs.Component, mgl32.Vec3) ecs.Component
}

type scalarField struct {
	comp ecs.ComponentType
	get  func(ecs.Component) float32
	set  func(ecs.Component, float32) ecs.Component // nil when read-only
}

type stringField struct {
	comp ecs.ComponentType
	get  func(ecs.Component) string
	set  func(ecs.Component, string) ecs.Component
}

var vectorFields = map[bridge.FieldID]vectorField{
	bridge.FieldPosition: {component.CTransform,
		func(c ecs.Component) mgl32.Vec3 { return c.(component.Transform).Position },
		func(c ecs.Component, v mgl32.Vec3) ecs.Component {
			t := c.(component.Transform)
			t.Position = v
			return t
		}},
	bridge.FieldRotation: {component.CTransform,
		func(c ecs.Component) mgl32.Vec3 { return c.(component.Transform).Rotation },
		func(c ecs.Component, v mgl32.Vec3) ecs.Component {
			t := c.(component.Transform)
			t.Rotation = v
			return t
		}},
	bridge.FieldScale: {component.CTransform,
		func(c ecs.Component) mgl32.Vec3 { return c.(component.Transform).Scale },
		func(c ecs.Component, v mgl32.Vec3) ecs.Component {
			t := c.(component.Transform)
			t.Scale = v
			return t
		}},
	bridge.FieldLinearVelocity: {component.CRigidBody,
		func(c ecs.Component) mgl32.Vec3 { return c.(component.RigidBody).LinearVelocity },
		func(c ecs.Component, v mgl32.Vec3) ecs.Component {
			rb := c.(component.RigidBody)
			rb.LinearVelocity = v
			return rb
		}},
	bridge.FieldAngularVelocity: {component.CRigidBody,
		func(c ecs.Component) mgl32.Vec3 { return c.(component.RigidBody).AngularVelocity },
		func(c ecs.Component, v mgl32.Vec3) ecs.Component {
			rb := c.(component.RigidBody)
			rb.AngularVelocity = v
			return rb
		}},
	bridge.FieldOffset: {component.CSphereCollider,
		func(c ecs.Component) mgl32.Vec3 { return c.(component.SphereCollider).Offset },
		func(c ecs.Component, v mgl32.Vec3) ecs.Component {
			sc := c.(component.SphereCollider)
			sc.Offset = v
			return sc
		}},
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

var scalarFields = map[bridge.FieldID]scalarField{
	bridge.FieldBodyType: {component.CRigidBody,
		func(c ecs.Component) float32 { return float32(c.(component.RigidBody).BodyType) },
		nil},
	bridge.FieldKinematic: {component.CRigidBody,
		func(c ecs.Component) float32 { return flag(c.(component.RigidBody).Kinematic) },
		func(c ecs.Component, f float32) ecs.Component {
			rb := c.(component.RigidBody)
			rb.Kinematic = f != 0
			return rb
		}},
	bridge.FieldMass: {component.CRigidBody,
		func(c ecs.Component) float32 { return c.(component.RigidBody).Mass },
		func(c ecs.Component, f float32) ecs.Component {
			rb := c.(component.RigidBody)
			rb.Mass = f
			return rb
		}},
	bridge.FieldGravityDisabled: {component.CRigidBody,
		func(c ecs.Component) float32 { return flag(c.(component.RigidBody).GravityDisabled) },
		func(c ecs.Component, f float32) ecs.Component {
			rb := c.(component.RigidBody)
			rb.GravityDisabled = f != 0
			return rb
		}},
	bridge.FieldRadius: {component.CSphereCollider,
		func(c ecs.Component) float32 { return c.(component.SphereCollider).Radius },
		func(c ecs.Component, f float32) ecs.Component {
			sc := c.(component.SphereCollider)
			sc.Radius = f
			return sc
		}},
	bridge.FieldTrigger: {component.CSphereCollider,
		func(c ecs.Component) float32 { return flag(c.(component.SphereCollider).Trigger) },
		func(c ecs.Component, f float32) ecs.Component {
			sc := c.(component.SphereCollider)
			sc.Trigger = f != 0
			return sc
		}},
}

var stringFields = map[bridge.FieldID]stringField{
	bridge.FieldName: {component.CName,
		func(c ecs.Component) string { return c.(component.Name).Name },
		func(c ecs.Component, s string) ecs.Component { return component.Name{Name: s} }},
	bridge.FieldMesh: {component.CMesh,
		func(c ecs.Component) string { return c.(component.Mesh).Path },
		func(c ecs.Component, s string) ecs.Component { return component.Mesh{Path: s} }},
	bridge.FieldScript: {component.CScript,
		func(c ecs.Component) string { return c.(component.Script).Path },
		func(c ecs.Component, s string) ecs.Component { return component.Script{Path: s} }},
}

package system

import (
	"scriptbridge/internal/component"
	"scriptbridge/internal/ecs"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultGravity is the acceleration applied to dynamic bodies, in units/s².
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

// Integrate advances every simulated rigid body by dt seconds: gravity (unless
// disabled) accelerates linear velocity, linear velocity moves the position
// and angular velocity turns the rotation. Static and kinematic bodies are
// left alone.
func Integrate(w *ecs.World, dt float32, gravity mgl32.Vec3) {
	if dt <= 0 {
		return
	}
	for _, id := range w.Query(component.CRigidBody, component.CTransform) {
		rb := w.Get(id, component.CRigidBody).(component.RigidBody)
		if !rb.Simulated() {
			continue
		}
		tr := w.Get(id, component.CTransform).(component.Transform)
		if !rb.GravityDisabled {
			rb.LinearVelocity = rb.LinearVelocity.Add(gravity.Mul(dt))
		}
		tr.Position = tr.Position.Add(rb.LinearVelocity.Mul(dt))
		tr.Rotation = wrapDegrees(tr.Rotation.Add(rb.AngularVelocity.Mul(dt)))
		w.Add(id, rb)
		w.Add(id, tr)
	}
}

func wrapDegrees(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		for v[i] >= 360 {
			v[i] -= 360
		}
		for v[i] < 0 {
			v[i] += 360
		}
	}
	return v
}

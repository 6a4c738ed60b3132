package factory

import (
	"fmt"

	"scriptbridge/internal/bridge"

	"github.com/go-gl/mathgl/mgl32"
)

// Scripted is an entity whose behaviour still has to be attached.
type Scripted struct {
	Handle bridge.Handle
	Path   string
}

// Spawned lists what Spawn created.
type Spawned struct {
	Entities []bridge.Handle // file order
	Scripted []Scripted      // file order, subset of Entities
}

// Spawn creates every entity of s through the bridge. Scripts are not run:
// the caller attaches them once the whole scene exists, so on_create can see
// every other entity.
func Spawn(b *bridge.Bridge, s *SceneFile) (Spawned, error) {
	var out Spawned
	for i, spec := range s.Entities {
		h, err := NewEntity(b, spec)
		if err != nil {
			return out, fmt.Errorf("spawn entity %d (%s): %w", i, spec.Name, err)
		}
		out.Entities = append(out.Entities, h)
		if spec.Script != "" {
			out.Scripted = append(out.Scripted, Scripted{Handle: h, Path: spec.Script})
		}
	}
	return out, nil
}

// NewEntity creates one entity from spec. An entity that fails half way is
// queued for removal.
func NewEntity(b *bridge.Bridge, spec EntitySpec) (bridge.Handle, error) {
	h, err := b.CreateEntity(spec.Name)
	if err != nil {
		return bridge.Nil, err
	}
	if err := populate(b, h, spec); err != nil {
		b.RemoveEntity(h)
		return bridge.Nil, err
	}
	return h, nil
}

func populate(b *bridge.Bridge, h bridge.Handle, spec EntitySpec) error {
	tr, ok := b.Transform(h)
	if !ok {
		return fmt.Errorf("%s: %w", h, bridge.ErrComponentAbsent)
	}
	if spec.Position != nil {
		if err := tr.SetPosition(vec3(spec.Position, mgl32.Vec3{})); err != nil {
			return err
		}
	}
	if spec.Rotation != nil {
		if err := tr.SetRotation(vec3(spec.Rotation, mgl32.Vec3{})); err != nil {
			return err
		}
	}
	if spec.Scale != nil {
		if err := tr.SetScale(vec3(spec.Scale, mgl32.Vec3{1, 1, 1})); err != nil {
			return err
		}
	}

	if spec.Mesh != "" {
		m, err := b.CreateMesh(h)
		if err != nil {
			return err
		}
		if err := m.SetMesh(spec.Mesh); err != nil {
			return err
		}
	}
	if spec.Script != "" {
		sc, err := b.CreateScript(h)
		if err != nil {
			return err
		}
		if err := sc.SetScript(spec.Script); err != nil {
			return err
		}
	}
	if spec.RigidBody != nil {
		if err := addRigidBody(b, h, *spec.RigidBody); err != nil {
			return err
		}
	}
	if spec.SphereCollider != nil {
		if err := addSphereCollider(b, h, *spec.SphereCollider); err != nil {
			return err
		}
	}
	return nil
}

func addRigidBody(b *bridge.Bridge, h bridge.Handle, spec RigidBodySpec) error {
	rb, err := b.CreateRigidBody(h)
	if err != nil {
		return err
	}
	if err := rb.SetKinematic(spec.Kinematic); err != nil {
		return err
	}
	if err := rb.SetGravityDisabled(spec.GravityDisabled); err != nil {
		return err
	}
	if spec.Mass != nil {
		if err := rb.SetMass(*spec.Mass); err != nil {
			return err
		}
	}
	if spec.LinearVelocity != nil {
		if err := rb.SetLinearVelocity(vec3(spec.LinearVelocity, mgl32.Vec3{})); err != nil {
			return err
		}
	}
	if spec.AngularVelocity != nil {
		if err := rb.SetAngularVelocity(vec3(spec.AngularVelocity, mgl32.Vec3{})); err != nil {
			return err
		}
	}
	return nil
}

func addSphereCollider(b *bridge.Bridge, h bridge.Handle, spec SphereColliderSpec) error {
	sc, err := b.CreateSphereCollider(h)
	if err != nil {
		return err
	}
	if spec.Radius != nil {
		if err := sc.SetRadius(*spec.Radius); err != nil {
			return err
		}
	}
	if spec.Offset != nil {
		if err := sc.SetOffset(vec3(spec.Offset, mgl32.Vec3{})); err != nil {
			return err
		}
	}
	return sc.SetTrigger(spec.Trigger)
}

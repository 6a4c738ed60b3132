// Package factory loads scene files and spawns their entities through the
// bridge.
package factory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene wraps every validation failure.
var ErrInvalidScene = errors.New("invalid scene")

// SceneFile is the on-disk form of a scene.
type SceneFile struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity. Every entity gets a name and a transform;
// the other components are created only when present.
type EntitySpec struct {
	Name           string              `yaml:"name"`
	Position       []float32           `yaml:"position,omitempty"`
	Rotation       []float32           `yaml:"rotation,omitempty"`
	Scale          []float32           `yaml:"scale,omitempty"`
	Mesh           string              `yaml:"mesh,omitempty"`
	Script         string              `yaml:"script,omitempty"`
	RigidBody      *RigidBodySpec      `yaml:"rigid_body,omitempty"`
	SphereCollider *SphereColliderSpec `yaml:"sphere_collider,omitempty"`
}

// RigidBodySpec leaves engine defaults in place for unset fields.
type RigidBodySpec struct {
	Kinematic       bool      `yaml:"kinematic"`
	Mass            *float32  `yaml:"mass,omitempty"`
	GravityDisabled bool      `yaml:"gravity_disabled"`
	LinearVelocity  []float32 `yaml:"linear_velocity,omitempty"`
	AngularVelocity []float32 `yaml:"angular_velocity,omitempty"`
}

type SphereColliderSpec struct {
	Radius  *float32  `yaml:"radius,omitempty"`
	Offset  []float32 `yaml:"offset,omitempty"`
	Trigger bool      `yaml:"trigger"`
}

// ParseScene decodes and validates a scene document. Unknown keys are
// rejected so that typos do not silently drop components.
func ParseScene(data []byte) (*SceneFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s SceneFile
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScene reads the scene at path from fsys.
func LoadScene(fsys fs.FS, path string) (*SceneFile, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks names, vector lengths, collider radii and masses.
func (s *SceneFile) Validate() error {
	for i, e := range s.Entities {
		if err := e.validate(); err != nil {
			label := e.Name
			if label == "" {
				label = "unnamed"
			}
			return fmt.Errorf("%w: entity %d (%s): %s", ErrInvalidScene, i, label, err)
		}
	}
	return nil
}

func (e EntitySpec) validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	vectors := map[string][]float32{
		"position": e.Position,
		"rotation": e.Rotation,
		"scale":    e.Scale,
	}
	if rb := e.RigidBody; rb != nil {
		vectors["linear_velocity"] = rb.LinearVelocity
		vectors["angular_velocity"] = rb.AngularVelocity
		if rb.Mass != nil && *rb.Mass < 0 {
			return fmt.Errorf("mass %g is negative", *rb.Mass)
		}
	}
	if sc := e.SphereCollider; sc != nil {
		vectors["offset"] = sc.Offset
		if sc.Radius != nil && *sc.Radius <= 0 {
			return fmt.Errorf("radius %g must be positive", *sc.Radius)
		}
	}
	for _, key := range []string{"position", "rotation", "scale", "linear_velocity", "angular_velocity", "offset"} {
		if v, ok := vectors[key]; ok && v != nil && len(v) != 3 {
			return fmt.Errorf("%s needs 3 components, got %d", key, len(v))
		}
	}
	return nil
}

// vec3 converts a validated vector, falling back to def when unset.
func vec3(v []float32, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl32.Vec3{v[0], v[1], v[2]}
}

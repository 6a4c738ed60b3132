package component

import (
	"scriptbridge/internal/ecs"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an entity in the world. Rotation is Euler angles in
// degrees, applied X then Y then Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func (Transform) Type() ecs.ComponentType { return CTransform }

// NewTransform returns an identity transform at pos.
func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{Position: pos, Scale: mgl32.Vec3{1, 1, 1}}
}

// MaxScale is the largest absolute scale axis, used to size colliders.
func (t Transform) MaxScale() float32 {
	m := abs32(t.Scale[0])
	if s := abs32(t.Scale[1]); s > m {
		m = s
	}
	if s := abs32(t.Scale[2]); s > m {
		m = s
	}
	return m
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

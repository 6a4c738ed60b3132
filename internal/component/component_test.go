package component

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaults(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{1, 2, 3})
	if tr.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("expected unit scale, got %v", tr.Scale)
	}
	rb := NewRigidBody()
	if rb.BodyType != BodyDynamic || rb.Mass != 1 || !rb.Simulated() {
		t.Fatalf("unexpected default body %+v", rb)
	}
	rb.Kinematic = true
	if rb.Simulated() {
		t.Fatal("kinematic bodies are not integrated")
	}
	if NewSphereCollider().Radius != 0.5 {
		t.Fatal("expected default radius 0.5")
	}
}

func TestMaxScale(t *testing.T) {
	tests := []struct {
		scale mgl32.Vec3
		want  float32
	}{
		{mgl32.Vec3{1, 1, 1}, 1},
		{mgl32.Vec3{0.5, 2, 1}, 2},
		{mgl32.Vec3{-3, 1, 1}, 3},
	}
	for _, tt := range tests {
		got := Transform{Scale: tt.scale}.MaxScale()
		if got != tt.want {
			t.Errorf("MaxScale(%v) = %v, want %v", tt.scale, got, tt.want)
		}
	}
}

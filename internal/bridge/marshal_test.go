package bridge

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestVector3Layout(t *testing.T) {
	v := mgl32.Vec3{1, 2, -0.5}
	buf := EncodeVector3(nil, v)
	if len(buf) != Vector3Layout {
		t.Fatalf("expected %d bytes, got %d", Vector3Layout, len(buf))
	}
	// 1.0f, 2.0f, -0.5f little-endian, X then Y then Z.
	want := []byte{
		0x00, 0x00, 0x80, 0x3f,
		0x00, 0x00, 0x00, 0x40,
		0x00, 0x00, 0x00, 0xbf,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("layout mismatch:\nwant % x\ngot  % x", want, buf)
	}
	got, err := DecodeVector3(buf)
	if err != nil {
		t.Fatalf("DecodeVector3: %v", err)
	}
	if got != v {
		t.Fatalf("want %v, got %v", v, got)
	}
	if _, err := DecodeVector3(buf[:8]); err == nil {
		t.Fatal("short buffer should fail")
	}
}

func TestScalarEncodings(t *testing.T) {
	n := newFakeNative()
	id, _ := n.CreateEntity("x")
	n.CreateComponent(id, RigidBodyType)
	_, kin, _ := DefaultRegistry().Field(FieldKinematic)

	if err := writeField(n, id, kin, BoolValue(true)); err != nil {
		t.Fatalf("writeField: %v", err)
	}
	if got := n.scalars[fieldKey{id, FieldKinematic}]; got != 1 {
		t.Fatalf("true should travel as 1, got %v", got)
	}
	n.scalars[fieldKey{id, FieldKinematic}] = 0
	v, err := readField(n, id, kin)
	if err != nil {
		t.Fatalf("readField: %v", err)
	}
	if v.Bool {
		t.Fatal("0 should read as false")
	}
	if err := writeField(n, id, kin, ScalarValue(1)); err == nil {
		t.Fatal("kind mismatch should fail before the native call")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name   string
		schema Schema
	}{
		{"zero token", Schema{Name: "Zero"}},
		{"duplicate token", Schema{Token: TransformType, Name: "Other"}},
		{"duplicate name", Schema{Token: 100, Name: "Transform"}},
		{"duplicate field id", Schema{Token: 101, Name: "Light", Fields: []Field{
			{ID: FieldPosition, Name: "position", Kind: KindVector3},
		}}},
		{"missing kind", Schema{Token: 102, Name: "Light", Fields: []Field{
			{ID: 900, Name: "intensity"},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Register(tt.schema); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRegistryExtension(t *testing.T) {
	r := DefaultRegistry()
	light := Schema{Token: 100, Name: "Light", Fields: []Field{
		{ID: 900, Name: "intensity", Kind: KindScalar},
	}}
	if err := r.Register(light); err != nil {
		t.Fatalf("Register: %v", err)
	}
	s, ok := r.ByName("Light")
	if !ok || s.Token != 100 {
		t.Fatal("registered schema not found by name")
	}
	tok, f, ok := r.Field(900)
	if !ok || tok != 100 || f.Name != "intensity" {
		t.Fatalf("field lookup: %v %v %v", tok, f, ok)
	}
	if len(r.Schemas()) != len(builtinSchemas)+1 {
		t.Fatalf("expected %d schemas, got %d", len(builtinSchemas)+1, len(r.Schemas()))
	}
}

func TestHandleString(t *testing.T) {
	if Nil.Valid() {
		t.Fatal("Nil must not be valid")
	}
	if got := Handle(42).String(); got != "entity#42" {
		t.Fatalf("unexpected %q", got)
	}
}

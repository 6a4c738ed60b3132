package bridge

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector3Layout is the byte size of a marshaled vector: X, Y, Z as
// consecutive little-endian float32, never reordered, never padded.
const Vector3Layout = 12

// EncodeVector3 appends the wire layout of v to dst.
func EncodeVector3(dst []byte, v mgl32.Vec3) []byte {
	for i := 0; i < 3; i++ {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v[i]))
	}
	return dst
}

// DecodeVector3 reads one vector from the front of src.
func DecodeVector3(src []byte) (mgl32.Vec3, error) {
	if len(src) < Vector3Layout {
		return mgl32.Vec3{}, fmt.Errorf("decode vector3: need %d bytes, have %d", Vector3Layout, len(src))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return v, nil
}

// Flags and enums share the scalar call.
func boolToScalar(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func scalarToBool(f float32) bool { return f != 0 }

// Value is a marshaled field value. Only the member matching Kind is set.
type Value struct {
	Kind   FieldKind
	Vector mgl32.Vec3
	Scalar float32
	Bool   bool
	Enum   int
	String string
}

func VectorValue(v mgl32.Vec3) Value { return Value{Kind: KindVector3, Vector: v} }
func ScalarValue(f float32) Value { return Value{Kind: KindScalar, Scalar: f} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func EnumValue(i int) Value { return Value{Kind: KindEnum, Enum: i} }
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

func (v Value) GoString() string {
	switch v.Kind {
	case KindVector3:
		return fmt.Sprintf("vector3(%g, %g, %g)", v.Vector[0], v.Vector[1], v.Vector[2])
	case KindScalar:
		return fmt.Sprintf("scalar(%g)", v.Scalar)
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.Bool)
	case KindEnum:
		return fmt.Sprintf("enum(%d)", v.Enum)
	case KindString:
		return fmt.Sprintf("string(%q)", v.String)
	}
	return "value(?)"
}

// readField issues the native read matching f.Kind.
func readField(n Native, id uint64, f Field) (Value, error) {
	switch f.Kind {
	case KindVector3:
		x, y, z, err := n.Vector3Field(id, f.ID)
		if err != nil {
			return Value{}, nativeErr("get "+f.Name, err)
		}
		return VectorValue(mgl32.Vec3{x, y, z}), nil
	case KindScalar, KindBool, KindEnum:
		s, err := n.ScalarField(id, f.ID)
		if err != nil {
			return Value{}, nativeErr("get "+f.Name, err)
		}
		switch f.Kind {
		case KindBool:
			return BoolValue(scalarToBool(s)), nil
		case KindEnum:
			return EnumValue(int(s)), nil
		}
		return ScalarValue(s), nil
	case KindString:
		s, err := n.StringField(id, f.ID)
		if err != nil {
			return Value{}, nativeErr("get "+f.Name, err)
		}
		return StringValue(strings.Clone(s)), nil
	}
	return Value{}, fmt.Errorf("get %s: %w", f.Name, ErrFieldKind)
}

// writeField issues the native write matching f.Kind. v.Kind must equal f.Kind.
func writeField(n Native, id uint64, f Field, v Value) error {
	if v.Kind != f.Kind {
		return fmt.Errorf("set %s: %w: have %s, want %s", f.Name, ErrFieldKind, v.Kind, f.Kind)
	}
	var err error
	switch f.Kind {
	case KindVector3:
		err = n.SetVector3Field(id, f.ID, v.Vector[0], v.Vector[1], v.Vector[2])
	case KindScalar:
		err = n.SetScalarField(id, f.ID, v.Scalar)
	case KindBool:
		err = n.SetScalarField(id, f.ID, boolToScalar(v.Bool))
	case KindEnum:
		err = n.SetScalarField(id, f.ID, float32(v.Enum))
	case KindString:
		err = n.SetStringField(id, f.ID, strings.Clone(v.String))
	default:
		return fmt.Errorf("set %s: %w", f.Name, ErrFieldKind)
	}
	return nativeErr("set "+f.Name, err)
}

package bridge

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// HasComponent reports whether the entity behind h carries t. It never
// fails: a Nil handle, an unknown token, an unreachable engine, a removed
// entity and a missing component all read as false.
func (b *Bridge) HasComponent(h Handle, t TypeToken) bool {
	if !h.Valid() {
		return false
	}
	if _, ok := b.registry.Lookup(t); !ok {
		return false
	}
	has, err := b.native.HasComponent(h.ID(), t)
	if err != nil {
		b.Logf(LogWarn, "has component %d on %s: %v", t, h, err)
		return false
	}
	return has
}

// CreateComponent attaches t to the entity if it is absent; attaching twice
// is the same as attaching once. The returned proxy is bound even if the
// entity turns out to be gone; its accessors will then report
// ErrComponentAbsent.
func (b *Bridge) CreateComponent(h Handle, t TypeToken) (Proxy, error) {
	if !h.Valid() {
		return Proxy{}, fmt.Errorf("create component: %w", ErrInvalidHandle)
	}
	schema, ok := b.registry.Lookup(t)
	if !ok {
		return Proxy{}, fmt.Errorf("create component %d: %w", t, ErrUnknownComponent)
	}
	if err := b.native.CreateComponent(h.ID(), t); err != nil {
		return Proxy{}, nativeErr("create "+schema.Name+" on "+h.String(), err)
	}
	return Proxy{bridge: b, handle: h, token: t}, nil
}

// Component returns a proxy for t on h and whether HasComponent holds. The
// proxy stays bound when the component is missing, so its accessors report
// ErrComponentAbsent; only Nil yields an unbound proxy. It has no side
// effects.
func (b *Bridge) Component(h Handle, t TypeToken) (Proxy, bool) {
	if !h.Valid() {
		return Proxy{}, false
	}
	return Proxy{bridge: b, handle: h, token: t}, b.HasComponent(h, t)
}

// Proxy is a view of one component on one entity. It holds no component
// state: every accessor re-checks that the component exists and then reads
// or writes the native side. Physics and other scripts may change the
// component between two reads, so callers must not assume a value read
// earlier is still current.
type Proxy struct {
	bridge *Bridge
	handle Handle
	token  TypeToken
}

// Handle returns the entity the proxy is bound to.
func (p Proxy) Handle() Handle { return p.handle }

// Type returns the component kind the proxy is bound to.
func (p Proxy) Type() TypeToken { return p.token }

// Exists re-checks the component on the native side.
func (p Proxy) Exists() bool {
	return p.bridge != nil && p.bridge.HasComponent(p.handle, p.token)
}

// Schema returns the marshaling schema of the component kind.
func (p Proxy) Schema() (Schema, bool) {
	if p.bridge == nil {
		return Schema{}, false
	}
	return p.bridge.registry.Lookup(p.token)
}

// resolve validates a field access before any native field call: the handle
// is bound, the schema owns the field, the kind matches and the component
// currently exists.
func (p Proxy) resolve(field Field, ok bool, kind FieldKind, write bool) (Field, error) {
	if p.bridge == nil || !p.handle.Valid() {
		return Field{}, ErrInvalidHandle
	}
	schema, found := p.bridge.registry.Lookup(p.token)
	if !found {
		return Field{}, fmt.Errorf("token %d: %w", p.token, ErrUnknownComponent)
	}
	if !ok {
		return Field{}, fmt.Errorf("%s: %w", schema.Name, ErrUnknownField)
	}
	if kind != 0 && field.Kind != kind {
		return Field{}, fmt.Errorf("%s.%s is %s, not %s: %w", schema.Name, field.Name, field.Kind, kind, ErrFieldKind)
	}
	if write && field.ReadOnly {
		return Field{}, fmt.Errorf("%s.%s: %w", schema.Name, field.Name, ErrReadOnlyField)
	}
	has, err := p.bridge.native.HasComponent(p.handle.ID(), p.token)
	if err != nil {
		return Field{}, nativeErr("has "+schema.Name, err)
	}
	if !has {
		return Field{}, fmt.Errorf("%s on %s: %w", schema.Name, p.handle, ErrComponentAbsent)
	}
	return field, nil
}

func (p Proxy) fieldByID(id FieldID) (Field, bool) {
	if p.bridge == nil {
		return Field{}, false
	}
	schema, ok := p.bridge.registry.Lookup(p.token)
	if !ok {
		return Field{}, false
	}
	return schema.FieldByID(id)
}

func (p Proxy) fieldByName(name string) (Field, bool) {
	if p.bridge == nil {
		return Field{}, false
	}
	schema, ok := p.bridge.registry.Lookup(p.token)
	if !ok {
		return Field{}, false
	}
	return schema.Field(name)
}

func (p Proxy) read(id FieldID, kind FieldKind) (Value, error) {
	f, ok := p.fieldByID(id)
	f, err := p.resolve(f, ok, kind, false)
	if err != nil {
		return Value{}, err
	}
	return readField(p.bridge.native, p.handle.ID(), f)
}

func (p Proxy) write(id FieldID, v Value) error {
	f, ok := p.fieldByID(id)
	f, err := p.resolve(f, ok, v.Kind, true)
	if err != nil {
		return err
	}
	return writeField(p.bridge.native, p.handle.ID(), f, v)
}

// Get reads a field by schema name.
func (p Proxy) Get(name string) (Value, error) {
	f, ok := p.fieldByName(name)
	f, err := p.resolve(f, ok, 0, false)
	if err != nil {
		return Value{}, err
	}
	return readField(p.bridge.native, p.handle.ID(), f)
}

// Set writes a field by schema name. v.Kind must match the field.
func (p Proxy) Set(name string, v Value) error {
	f, ok := p.fieldByName(name)
	f, err := p.resolve(f, ok, v.Kind, true)
	if err != nil {
		return err
	}
	return writeField(p.bridge.native, p.handle.ID(), f, v)
}

// Vector3 reads a vector field.
func (p Proxy) Vector3(id FieldID) (mgl32.Vec3, error) {
	v, err := p.read(id, KindVector3)
	return v.Vector, err
}

// SetVector3 writes a vector field.
func (p Proxy) SetVector3(id FieldID, v mgl32.Vec3) error {
	return p.write(id, VectorValue(v))
}

// Scalar reads a float field.
func (p Proxy) Scalar(id FieldID) (float32, error) {
	v, err := p.read(id, KindScalar)
	return v.Scalar, err
}

// SetScalar writes a float field.
func (p Proxy) SetScalar(id FieldID, f float32) error {
	return p.write(id, ScalarValue(f))
}

// Bool reads a boolean field.
func (p Proxy) Bool(id FieldID) (bool, error) {
	v, err := p.read(id, KindBool)
	return v.Bool, err
}

// SetBool writes a boolean field.
func (p Proxy) SetBool(id FieldID, b bool) error {
	return p.write(id, BoolValue(b))
}

// Enum reads an enumerated field as its integer value.
func (p Proxy) Enum(id FieldID) (int, error) {
	v, err := p.read(id, KindEnum)
	return v.Enum, err
}

// String reads a string field.
func (p Proxy) String(id FieldID) (string, error) {
	v, err := p.read(id, KindString)
	return v.String, err
}

// SetString writes a string field.
func (p Proxy) SetString(id FieldID, s string) error {
	return p.write(id, StringValue(s))
}

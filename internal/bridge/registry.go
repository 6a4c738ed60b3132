package bridge

import (
	"fmt"
	"strings"
)

// TypeToken names a component kind across the boundary.
type TypeToken uint16

// Built-in component kinds.
const (
	NameType           TypeToken = 1
	TransformType      TypeToken = 2
	MeshType           TypeToken = 3
	ScriptType         TypeToken = 4
	RigidBodyType      TypeToken = 5
	SphereColliderType TypeToken = 6
)

// FieldID identifies one property on the wire. Ids are unique across the
// whole registry because the native field calls do not carry a type token.
type FieldID uint16

const (
	FieldPosition FieldID = 1
	FieldRotation FieldID = 2
	FieldScale    FieldID = 3

	FieldName FieldID = 10

	FieldMesh FieldID = 20

	FieldScript FieldID = 30

	FieldBodyType        FieldID = 40
	FieldKinematic       FieldID = 41
	FieldMass            FieldID = 42
	FieldGravityDisabled FieldID = 43
	FieldLinearVelocity  FieldID = 44
	FieldAngularVelocity FieldID = 45

	FieldRadius  FieldID = 50
	FieldOffset  FieldID = 51
	FieldTrigger FieldID = 52
)

// FieldKind is the marshaled shape of a field.
type FieldKind uint8

const (
	KindVector3 FieldKind = iota + 1
	KindScalar
	KindBool
	KindEnum
	KindString
)

func (k FieldKind) String() string {
	switch k {
	case KindVector3:
		return "vector3"
	case KindScalar:
		return "scalar"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Field is one typed property of a component schema.
type Field struct {
	ID       FieldID
	Name     string
	Kind     FieldKind
	ReadOnly bool
	Values   []string // enum value names, indexed by value
}

// Schema is the marshaling description of one component kind: a fixed,
// ordered set of typed fields.
type Schema struct {
	Token  TypeToken
	Name   string
	Fields []Field
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByID looks up a field by id.
func (s Schema) FieldByID(id FieldID) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

type fieldOwner struct {
	token TypeToken
	index int
}

// Registry maps type tokens to schemas. New component kinds are added by
// registering a schema; nothing else in the bridge changes.
type Registry struct {
	schemas []Schema
	byToken map[TypeToken]int
	byName  map[string]int
	fields  map[FieldID]fieldOwner
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byToken: make(map[TypeToken]int),
		byName:  make(map[string]int),
		fields:  make(map[FieldID]fieldOwner),
	}
}

// Register adds a schema. Tokens, names and field ids must be unique.
func (r *Registry) Register(s Schema) error {
	if s.Token == 0 {
		return fmt.Errorf("register %q: zero type token", s.Name)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("register token %d: empty name", s.Token)
	}
	if _, dup := r.byToken[s.Token]; dup {
		return fmt.Errorf("register %q: token %d already registered", s.Name, s.Token)
	}
	if _, dup := r.byName[s.Name]; dup {
		return fmt.Errorf("register %q: name already registered", s.Name)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.ID == 0 || f.Name == "" {
			return fmt.Errorf("register %q: field needs an id and a name", s.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("register %q: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = true
		if owner, dup := r.fields[f.ID]; dup {
			return fmt.Errorf("register %q: field id %d already used by token %d", s.Name, f.ID, owner.token)
		}
		if f.Kind < KindVector3 || f.Kind > KindString {
			return fmt.Errorf("register %q: field %q has no kind", s.Name, f.Name)
		}
	}

	s.Fields = append([]Field(nil), s.Fields...)
	idx := len(r.schemas)
	r.schemas = append(r.schemas, s)
	r.byToken[s.Token] = idx
	r.byName[s.Name] = idx
	for i, f := range s.Fields {
		r.fields[f.ID] = fieldOwner{token: s.Token, index: i}
	}
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry) MustRegister(s Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered for t.
func (r *Registry) Lookup(t TypeToken) (Schema, bool) {
	idx, ok := r.byToken[t]
	if !ok {
		return Schema{}, false
	}
	return r.schemas[idx], true
}

// ByName returns the schema registered under name.
func (r *Registry) ByName(name string) (Schema, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Schema{}, false
	}
	return r.schemas[idx], true
}

// Schemas returns every schema in registration order.
func (r *Registry) Schemas() []Schema {
	return append([]Schema(nil), r.schemas...)
}

// Field returns the owning token and description of a field id.
func (r *Registry) Field(id FieldID) (TypeToken, Field, bool) {
	owner, ok := r.fields[id]
	if !ok {
		return 0, Field{}, false
	}
	return owner.token, r.schemas[r.byToken[owner.token]].Fields[owner.index], true
}

// Body types of the rigid body body_type enum.
const (
	BodyStatic  = 0
	BodyDynamic = 1
)

var builtinSchemas = []Schema{
	{Token: NameType, Name: "Name", Fields: []Field{
		{ID: FieldName, Name: "name", Kind: KindString},
	}},
	{Token: TransformType, Name: "Transform", Fields: []Field{
		{ID: FieldPosition, Name: "position", Kind: KindVector3},
		{ID: FieldRotation, Name: "rotation", Kind: KindVector3},
		{ID: FieldScale, Name: "scale", Kind: KindVector3},
	}},
	{Token: MeshType, Name: "Mesh", Fields: []Field{
		{ID: FieldMesh, Name: "mesh", Kind: KindString},
	}},
	{Token: ScriptType, Name: "Script", Fields: []Field{
		{ID: FieldScript, Name: "script", Kind: KindString},
	}},
	{Token: RigidBodyType, Name: "RigidBody", Fields: []Field{
		{ID: FieldBodyType, Name: "body_type", Kind: KindEnum, ReadOnly: true, Values: []string{"static", "dynamic"}},
		{ID: FieldKinematic, Name: "is_kinematic", Kind: KindBool},
		{ID: FieldMass, Name: "mass", Kind: KindScalar},
		{ID: FieldGravityDisabled, Name: "is_gravity_disabled", Kind: KindBool},
		{ID: FieldLinearVelocity, Name: "linear_velocity", Kind: KindVector3},
		{ID: FieldAngularVelocity, Name: "angular_velocity", Kind: KindVector3},
	}},
	{Token: SphereColliderType, Name: "SphereCollider", Fields: []Field{
		{ID: FieldRadius, Name: "radius", Kind: KindScalar},
		{ID: FieldOffset, Name: "offset", Kind: KindVector3},
		{ID: FieldTrigger, Name: "is_trigger", Kind: KindBool},
	}},
}

// DefaultRegistry returns a registry holding the built-in component kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range builtinSchemas {
		r.MustRegister(s)
	}
	return r
}

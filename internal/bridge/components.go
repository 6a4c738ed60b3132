package bridge

import "github.com/go-gl/mathgl/mgl32"

// ─── Lookups ─────────────────────────────────────────────────────────────────

// The lookups report false when the component is missing; the returned view
// is still bound and its accessors then fail with ErrComponentAbsent.

// Transform returns the transform view of h.
func (b *Bridge) Transform(h Handle) (Transform, bool) {
	p, ok := b.Component(h, TransformType)
	return Transform{p}, ok
}

// NameOf is the typed lookup for the name component. It is not called Name
// because Bridge.Name already resolves the string directly.
func (b *Bridge) NameOf(h Handle) (Name, bool) {
	p, ok := b.Component(h, NameType)
	return Name{p}, ok
}

// Mesh returns the mesh view of h.
func (b *Bridge) Mesh(h Handle) (Mesh, bool) {
	p, ok := b.Component(h, MeshType)
	return Mesh{p}, ok
}

// Script returns the script view of h.
func (b *Bridge) Script(h Handle) (Script, bool) {
	p, ok := b.Component(h, ScriptType)
	return Script{p}, ok
}

// RigidBody returns the rigid body view of h.
func (b *Bridge) RigidBody(h Handle) (RigidBody, bool) {
	p, ok := b.Component(h, RigidBodyType)
	return RigidBody{p}, ok
}

// SphereCollider returns the sphere collider view of h.
func (b *Bridge) SphereCollider(h Handle) (SphereCollider, bool) {
	p, ok := b.Component(h, SphereColliderType)
	return SphereCollider{p}, ok
}

// CreateMesh attaches a mesh component to h if it has none.
func (b *Bridge) CreateMesh(h Handle) (Mesh, error) {
	p, err := b.CreateComponent(h, MeshType)
	return Mesh{p}, err
}

// CreateScript attaches a script component to h if it has none.
func (b *Bridge) CreateScript(h Handle) (Script, error) {
	p, err := b.CreateComponent(h, ScriptType)
	return Script{p}, err
}

// CreateRigidBody attaches a rigid body with default settings if h has none.
func (b *Bridge) CreateRigidBody(h Handle) (RigidBody, error) {
	p, err := b.CreateComponent(h, RigidBodyType)
	return RigidBody{p}, err
}

// CreateSphereCollider attaches a sphere collider if h has none.
func (b *Bridge) CreateSphereCollider(h Handle) (SphereCollider, error) {
	p, err := b.CreateComponent(h, SphereColliderType)
	return SphereCollider{p}, err
}

// ─── Views ───────────────────────────────────────────────────────────────────

// Transform is the position, rotation (Euler degrees) and scale of an entity.
type Transform struct{ Proxy }

func (t Transform) Position() (mgl32.Vec3, error) { return t.Vector3(FieldPosition) }
func (t Transform) SetPosition(v mgl32.Vec3) error { return t.SetVector3(FieldPosition, v) }
func (t Transform) Rotation() (mgl32.Vec3, error) { return t.Vector3(FieldRotation) }
func (t Transform) SetRotation(v mgl32.Vec3) error { return t.SetVector3(FieldRotation, v) }
func (t Transform) Scale() (mgl32.Vec3, error) { return t.Vector3(FieldScale) }
func (t Transform) SetScale(v mgl32.Vec3) error { return t.SetVector3(FieldScale, v) }

// Name is the display name every entity is created with.
type Name struct{ Proxy }

func (n Name) Name() (string, error) { return n.Proxy.String(FieldName) }
func (n Name) SetName(s string) error { return n.SetString(FieldName, s) }

// Mesh names the asset an entity is drawn with.
type Mesh struct{ Proxy }

func (m Mesh) Mesh() (string, error) { return m.Proxy.String(FieldMesh) }
func (m Mesh) SetMesh(path string) error { return m.SetString(FieldMesh, path) }

// Script names the behaviour source attached to an entity.
type Script struct{ Proxy }

func (s Script) Script() (string, error) { return s.Proxy.String(FieldScript) }
func (s Script) SetScript(path string) error { return s.SetString(FieldScript, path) }

// RigidBody is the physics state of an entity. The body type is fixed at
// creation and cannot be changed from scripts.
type RigidBody struct{ Proxy }

func (r RigidBody) BodyType() (int, error) { return r.Enum(FieldBodyType) }
func (r RigidBody) IsKinematic() (bool, error) { return r.Bool(FieldKinematic) }
func (r RigidBody) SetKinematic(v bool) error { return r.SetBool(FieldKinematic, v) }
func (r RigidBody) Mass() (float32, error) { return r.Scalar(FieldMass) }
func (r RigidBody) SetMass(v float32) error { return r.SetScalar(FieldMass, v) }
func (r RigidBody) IsGravityDisabled() (bool, error) { return r.Bool(FieldGravityDisabled) }
func (r RigidBody) SetGravityDisabled(v bool) error { return r.SetBool(FieldGravityDisabled, v) }
func (r RigidBody) LinearVelocity() (mgl32.Vec3, error) { return r.Vector3(FieldLinearVelocity) }
func (r RigidBody) SetLinearVelocity(v mgl32.Vec3) error { return r.SetVector3(FieldLinearVelocity, v) }
func (r RigidBody) AngularVelocity() (mgl32.Vec3, error) { return r.Vector3(FieldAngularVelocity) }
func (r RigidBody) SetAngularVelocity(v mgl32.Vec3) error { return r.SetVector3(FieldAngularVelocity, v) }

// SphereCollider is a sphere around the transform position plus Offset.
// Triggers report overlaps without a physical response.
type SphereCollider struct{ Proxy }

func (s SphereCollider) Radius() (float32, error) { return s.Scalar(FieldRadius) }
func (s SphereCollider) SetRadius(v float32) error { return s.SetScalar(FieldRadius, v) }
func (s SphereCollider) Offset() (mgl32.Vec3, error) { return s.Vector3(FieldOffset) }
func (s SphereCollider) SetOffset(v mgl32.Vec3) error { return s.SetVector3(FieldOffset, v) }
func (s SphereCollider) IsTrigger() (bool, error) { return s.Bool(FieldTrigger) }
func (s SphereCollider) SetTrigger(v bool) error { return s.SetBool(FieldTrigger, v) }

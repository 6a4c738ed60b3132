package bridge

// Native is the set of boundary calls the native engine exposes to the
// bridge. Implementations own all entity and component state; the bridge
// keeps none of it between calls.
//
// Vector fields are passed as three float32 in X, Y, Z order. Scalar fields
// carry masses, radii, flags (0 or 1) and enum values. Strings are copied in
// both directions.
type Native interface {
	CreateEntity(name string) (uint64, error)
	// RemoveEntity requests removal. Removing an id that is already gone
	// must be a no-op. The native side may defer removal to end of tick.
	RemoveEntity(id uint64) error

	HasComponent(id uint64, t TypeToken) (bool, error)
	// CreateComponent attaches t to id if absent and is a no-op otherwise.
	CreateComponent(id uint64, t TypeToken) error

	Vector3Field(id uint64, f FieldID) (x, y, z float32, err error)
	SetVector3Field(id uint64, f FieldID, x, y, z float32) error
	ScalarField(id uint64, f FieldID) (float32, error)
	SetScalarField(id uint64, f FieldID, v float32) error
	StringField(id uint64, f FieldID) (string, error)
	SetStringField(id uint64, f FieldID, v string) error

	Sink
}

// Sink is the diagnostics sink. Messages are already formatted.
type Sink interface {
	LogMessage(level LogLevel, text string)
}

// EntityChecker is an optional Native capability that reports liveness
// directly. Without it the bridge infers liveness from the transform
// component, which every entity carries.
type EntityChecker interface {
	EntityExists(id uint64) (bool, error)
}

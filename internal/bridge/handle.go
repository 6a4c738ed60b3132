package bridge

import "strconv"

// Handle addresses an entity on the native side. It is a plain value: the
// native registry owns the entity, and every operation taking a Handle
// re-resolves the id there. Two handles with the same id are interchangeable.
type Handle uint64

// Nil is the unbound handle. No live entity has this id.
const Nil Handle = 0

// DefaultEntityName is used by CreateEntity when no name is given.
const DefaultEntityName = "New entity"

// Valid reports whether h is bound to an id. It says nothing about liveness.
func (h Handle) Valid() bool { return h != Nil }

// ID returns the raw identifier passed across the boundary.
func (h Handle) ID() uint64 { return uint64(h) }

func (h Handle) String() string {
	return "entity#" + strconv.FormatUint(uint64(h), 10)
}

package bridge

import "fmt"

// CreateEntity asks the native side for a new entity and returns its handle.
// An empty name means DefaultEntityName.
func (b *Bridge) CreateEntity(name string) (Handle, error) {
	if name == "" {
		name = DefaultEntityName
	}
	id, err := b.native.CreateEntity(name)
	if err != nil {
		return Nil, nativeErr("create entity", err)
	}
	if id == 0 {
		return Nil, fmt.Errorf("create entity %q: %w: native returned id 0", name, ErrEngineUnavailable)
	}
	return Handle(id), nil
}

// RemoveEntity requests removal of the entity behind h. Removal may be
// deferred to end of tick, so removing an entity that is already gone is a
// no-op rather than an error.
func (b *Bridge) RemoveEntity(h Handle) error {
	if !h.Valid() {
		return fmt.Errorf("remove entity: %w", ErrInvalidHandle)
	}
	return nativeErr("remove "+h.String(), b.native.RemoveEntity(h.ID()))
}

// Alive reports whether the entity behind h still exists. HasComponent
// cannot tell a removed entity from a missing component; this can.
func (b *Bridge) Alive(h Handle) bool {
	if !h.Valid() {
		return false
	}
	if c, ok := b.native.(EntityChecker); ok {
		alive, err := c.EntityExists(h.ID())
		if err != nil {
			b.Logf(LogWarn, "liveness of %s: %v", h, err)
			return false
		}
		return alive
	}
	return b.HasComponent(h, TransformType)
}

// Name resolves the display name through the name component.
func (b *Bridge) Name(h Handle) (string, error) {
	n, ok := b.NameOf(h)
	if !ok {
		if !h.Valid() {
			return "", fmt.Errorf("name: %w", ErrInvalidHandle)
		}
		return "", fmt.Errorf("name of %s: %w", h, ErrComponentAbsent)
	}
	return n.Name()
}

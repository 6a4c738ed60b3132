package ecs

import "slices"

// EntityID is an entity handle as the engine hands it out. Zero is never
// issued.
type EntityID uint64

// NilEntity is the absent entity.
const NilEntity EntityID = 0

// ComponentType keys a component store. Values line up with the bridge's
// type tokens.
type ComponentType uint8

// Component is a record kept in a World.
type Component interface {
	Type() ComponentType
}

// World is the native handle registry: it mints entity ids, tracks liveness
// and stores components by type. Ids are never reused within a World.
type World struct {
	nextID EntityID
	alive  map[EntityID]struct{}
	stores map[ComponentType]map[EntityID]Component

	// removal queue, in request order
	pending []EntityID
	queued  map[EntityID]struct{}
}

// NewWorld returns a World whose first entity will be 1.
func NewWorld() *World {
	return &World{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		stores: make(map[ComponentType]map[EntityID]Component),
		queued: make(map[EntityID]struct{}),
	}
}

// CreateEntity issues the next id.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive[id] = struct{}{}
	return id
}

// DestroyEntity removes the entity and its components now, dropping any
// queued removal. Unknown ids are ignored.
func (w *World) DestroyEntity(id EntityID) {
	if !w.Alive(id) {
		return
	}
	delete(w.alive, id)
	if _, ok := w.queued[id]; ok {
		delete(w.queued, id)
		w.pending = slices.DeleteFunc(w.pending, func(p EntityID) bool { return p == id })
	}
	for _, store := range w.stores {
		delete(store, id)
	}
}

// QueueDestroy marks the entity for removal at the next Flush. The entity
// stays alive and readable until then. Queueing twice, or queueing a dead
// entity, is a no-op.
func (w *World) QueueDestroy(id EntityID) {
	if !w.Alive(id) || w.Pending(id) {
		return
	}
	w.queued[id] = struct{}{}
	w.pending = append(w.pending, id)
}

// Pending reports whether the entity is queued for removal.
func (w *World) Pending(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// Flush destroys every queued entity in queue order and returns their ids.
func (w *World) Flush() []EntityID {
	if len(w.pending) == 0 {
		return nil
	}
	removed := w.pending
	w.pending = nil
	for _, id := range removed {
		w.DestroyEntity(id)
	}
	return removed
}

func (w *World) Count() int { return len(w.alive) }

// Entities returns every live id, ascending.
func (w *World) Entities() []EntityID {
	ids := make([]EntityID, 0, len(w.alive))
	for id := range w.alive {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (w *World) Alive(id EntityID) bool {
	_, ok := w.alive[id]
	return ok
}

// Add stores c under its type, replacing any previous record of that type.
func (w *World) Add(id EntityID, c Component) {
	store, ok := w.stores[c.Type()]
	if !ok {
		store = make(map[EntityID]Component)
		w.stores[c.Type()] = store
	}
	store[id] = c
}

// Get returns the entity's record of type t, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	return w.stores[t][id]
}

func (w *World) Remove(id EntityID, t ComponentType) {
	delete(w.stores[t], id)
}

func (w *World) Has(id EntityID, t ComponentType) bool {
	_, ok := w.stores[t][id]
	return ok
}

// Query returns the live entities holding every type in types, ascending.
// Iteration walks the smallest store.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	lead := slices.MinFunc(types, func(a, b ComponentType) int {
		return len(w.stores[a]) - len(w.stores[b])
	})
	var out []EntityID
	for id := range w.stores[lead] {
		if w.Alive(id) && w.hasAll(id, types) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func (w *World) hasAll(id EntityID, types []ComponentType) bool {
	for _, t := range types {
		if !w.Has(id, t) {
			return false
		}
	}
	return true
}

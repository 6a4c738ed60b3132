package bridge

import (
	"errors"
	"fmt"
)

var errFakeDown = errors.New("fake engine down")

type fieldKey struct {
	id uint64
	f  FieldID
}

type logLine struct {
	level LogLevel
	text  string
}

// fakeNative is an in-memory Native that counts boundary calls. Removal is
// deferred until flush, like the real engine's end of tick.
type fakeNative struct {
	next     uint64
	entities map[uint64]map[TypeToken]bool
	pending  []uint64
	vectors  map[fieldKey][3]float32
	scalars  map[fieldKey]float32
	strings  map[fieldKey]string
	logs     []logLine
	calls    int
	down     bool
	rejected map[TypeToken]bool // tokens CreateComponent refuses as unknown
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		entities: make(map[uint64]map[TypeToken]bool),
		vectors:  make(map[fieldKey][3]float32),
		scalars:  make(map[fieldKey]float32),
		strings:  make(map[fieldKey]string),
	}
}

func (n *fakeNative) owner(f FieldID) TypeToken {
	t, _, _ := DefaultRegistry().Field(f)
	return t
}

func (n *fakeNative) check(id uint64, f FieldID) error {
	n.calls++
	if n.down {
		return errFakeDown
	}
	if !n.entities[id][n.owner(f)] {
		return fmt.Errorf("entity %d field %d: %w", id, f, ErrComponentAbsent)
	}
	return nil
}

func (n *fakeNative) CreateEntity(name string) (uint64, error) {
	n.calls++
	if n.down {
		return 0, errFakeDown
	}
	n.next++
	n.entities[n.next] = map[TypeToken]bool{NameType: true, TransformType: true}
	n.strings[fieldKey{n.next, FieldName}] = name
	n.vectors[fieldKey{n.next, FieldScale}] = [3]float32{1, 1, 1}
	return n.next, nil
}

func (n *fakeNative) RemoveEntity(id uint64) error {
	n.calls++
	if n.down {
		return errFakeDown
	}
	n.pending = append(n.pending, id)
	return nil
}

func (n *fakeNative) flush() {
	for _, id := range n.pending {
		delete(n.entities, id)
	}
	n.pending = nil
}

func (n *fakeNative) EntityExists(id uint64) (bool, error) {
	n.calls++
	if n.down {
		return false, errFakeDown
	}
	_, ok := n.entities[id]
	return ok, nil
}

func (n *fakeNative) HasComponent(id uint64, t TypeToken) (bool, error) {
	n.calls++
	if n.down {
		return false, errFakeDown
	}
	return n.entities[id][t], nil
}

func (n *fakeNative) CreateComponent(id uint64, t TypeToken) error {
	n.calls++
	if n.down {
		return errFakeDown
	}
	if n.rejected[t] {
		return fmt.Errorf("token %d: %w", t, ErrUnknownComponent)
	}
	comps, ok := n.entities[id]
	if !ok {
		return fmt.Errorf("entity %d: %w", id, ErrComponentAbsent)
	}
	if comps[t] {
		return nil
	}
	comps[t] = true
	switch t {
	case RigidBodyType:
		n.scalars[fieldKey{id, FieldBodyType}] = BodyDynamic
		n.scalars[fieldKey{id, FieldMass}] = 1
	case SphereColliderType:
		n.scalars[fieldKey{id, FieldRadius}] = 0.5
	}
	return nil
}

func (n *fakeNative) Vector3Field(id uint64, f FieldID) (x, y, z float32, err error) {
	if err := n.check(id, f); err != nil {
		return 0, 0, 0, err
	}
	v := n.vectors[fieldKey{id, f}]
	return v[0], v[1], v[2], nil
}

func (n *fakeNative) SetVector3Field(id uint64, f FieldID, x, y, z float32) error {
	if err := n.check(id, f); err != nil {
		return err
	}
	n.vectors[fieldKey{id, f}] = [3]float32{x, y, z}
	return nil
}

func (n *fakeNative) ScalarField(id uint64, f FieldID) (float32, error) {
	if err := n.check(id, f); err != nil {
		return 0, err
	}
	return n.scalars[fieldKey{id, f}], nil
}

func (n *fakeNative) SetScalarField(id uint64, f FieldID, v float32) error {
	if err := n.check(id, f); err != nil {
		return err
	}
	n.scalars[fieldKey{id, f}] = v
	return nil
}

func (n *fakeNative) StringField(id uint64, f FieldID) (string, error) {
	if err := n.check(id, f); err != nil {
		return "", err
	}
	return n.strings[fieldKey{id, f}], nil
}

func (n *fakeNative) SetStringField(id uint64, f FieldID, v string) error {
	if err := n.check(id, f); err != nil {
		return err
	}
	n.strings[fieldKey{id, f}] = v
	return nil
}

func (n *fakeNative) LogMessage(level LogLevel, text string) {
	n.logs = append(n.logs, logLine{level, text})
}

func (n *fakeNative) logged(level LogLevel) []string {
	var out []string
	for _, l := range n.logs {
		if l.level == level {
			out = append(out, l.text)
		}
	}
	return out
}

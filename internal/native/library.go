//go:build darwin || linux

package native

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"scriptbridge/internal/bridge"

	"github.com/ebitengine/purego"
)

// LibraryName returns the platform file name of the engine library.
func LibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libdc_engine.dylib"
	}
	return "libdc_engine.so"
}

// FindLibrary returns the first existing candidate: the DC_ENGINE_LIB
// environment variable, then the executable's directory, then the working
// directory. With no match it returns the bare name and lets the dynamic
// loader search.
func FindLibrary() string {
	if p := os.Getenv("DC_ENGINE_LIB"); p != "" {
		return p
	}
	name := LibraryName()
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
	}
	candidates = append(candidates, name)
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			if abs, err := filepath.Abs(c); err == nil {
				return abs
			}
			return c
		}
	}
	return name
}

// Library is a loaded engine library. It implements bridge.Native,
// bridge.EntityChecker and bridge.Input.
type Library struct {
	path   string
	handle uintptr

	createEntity    func(name *byte, out *uint64) Status
	removeEntity    func(id uint64) Status
	entityExists    func(id uint64, out *int32) Status
	hasComponent    func(id uint64, token uint16, out *int32) Status
	createComponent func(id uint64, token uint16) Status
	getVector3      func(id uint64, field uint16, out *[3]float32) Status
	setVector3      func(id uint64, field uint16, in *[3]float32) Status
	getScalar       func(id uint64, field uint16, out *float32) Status
	setScalar       func(id uint64, field uint16, v float32) Status
	getString       func(id uint64, field uint16, out *uintptr) Status
	setString       func(id uint64, field uint16, v *byte) Status
	logMessage      func(level int32, text *byte)
	isKeyPressed    func(key int32) int32
	isButtonPressed func(button int32) int32
	setCallbacks    func(collisionBegin, collisionEnd, triggerBegin, triggerEnd, keyPress, keyRelease uintptr)
	update          func(dt float32) Status
	endTick         func(out *uint64, capacity int32, count *int32) Status
}

// Open loads the library at path and resolves every dc_* symbol.
func Open(path string) (lib *Library, err error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", path, bridge.ErrEngineUnavailable, err)
	}
	// RegisterLibFunc panics on a missing symbol.
	defer func() {
		if p := recover(); p != nil {
			purego.Dlclose(handle)
			lib, err = nil, fmt.Errorf("load %s: %w: %v", path, bridge.ErrEngineUnavailable, p)
		}
	}()

	l := &Library{path: path, handle: handle}
	purego.RegisterLibFunc(&l.createEntity, handle, "dc_create_entity")
	purego.RegisterLibFunc(&l.removeEntity, handle, "dc_remove_entity")
	purego.RegisterLibFunc(&l.entityExists, handle, "dc_entity_exists")
	purego.RegisterLibFunc(&l.hasComponent, handle, "dc_has_component")
	purego.RegisterLibFunc(&l.createComponent, handle, "dc_create_component")
	purego.RegisterLibFunc(&l.getVector3, handle, "dc_get_vector3")
	purego.RegisterLibFunc(&l.setVector3, handle, "dc_set_vector3")
	purego.RegisterLibFunc(&l.getScalar, handle, "dc_get_scalar")
	purego.RegisterLibFunc(&l.setScalar, handle, "dc_set_scalar")
	purego.RegisterLibFunc(&l.getString, handle, "dc_get_string")
	purego.RegisterLibFunc(&l.setString, handle, "dc_set_string")
	purego.RegisterLibFunc(&l.logMessage, handle, "dc_log_message")
	purego.RegisterLibFunc(&l.isKeyPressed, handle, "dc_is_key_pressed")
	purego.RegisterLibFunc(&l.isButtonPressed, handle, "dc_is_mouse_button_pressed")
	purego.RegisterLibFunc(&l.setCallbacks, handle, "dc_set_event_callbacks")
	purego.RegisterLibFunc(&l.update, handle, "dc_update")
	purego.RegisterLibFunc(&l.endTick, handle, "dc_end_tick")
	return l, nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

// Close detaches event callbacks and unloads the library.
func (l *Library) Close() error {
	l.setCallbacks(0, 0, 0, 0, 0, 0)
	detach(l)
	return purego.Dlclose(l.handle)
}

func (l *Library) CreateEntity(name string) (uint64, error) {
	b := cString(name)
	var id uint64
	s := l.createEntity(&b[0], &id)
	runtime.KeepAlive(b)
	if err := check("dc_create_entity", s); err != nil {
		return 0, err
	}
	return id, nil
}

func (l *Library) RemoveEntity(id uint64) error {
	return check("dc_remove_entity", l.removeEntity(id))
}

func (l *Library) EntityExists(id uint64) (bool, error) {
	var out int32
	if err := check("dc_entity_exists", l.entityExists(id, &out)); err != nil {
		return false, err
	}
	return out != 0, nil
}

func (l *Library) HasComponent(id uint64, t bridge.TypeToken) (bool, error) {
	var out int32
	if err := check("dc_has_component", l.hasComponent(id, uint16(t), &out)); err != nil {
		return false, err
	}
	return out != 0, nil
}

func (l *Library) CreateComponent(id uint64, t bridge.TypeToken) error {
	return check("dc_create_component", l.createComponent(id, uint16(t)))
}

func (l *Library) Vector3Field(id uint64, f bridge.FieldID) (x, y, z float32, err error) {
	var v [3]float32
	if err := check("dc_get_vector3", l.getVector3(id, uint16(f), &v)); err != nil {
		return 0, 0, 0, err
	}
	return v[0], v[1], v[2], nil
}

func (l *Library) SetVector3Field(id uint64, f bridge.FieldID, x, y, z float32) error {
	v := [3]float32{x, y, z}
	return check("dc_set_vector3", l.setVector3(id, uint16(f), &v))
}

func (l *Library) ScalarField(id uint64, f bridge.FieldID) (float32, error) {
	var v float32
	if err := check("dc_get_scalar", l.getScalar(id, uint16(f), &v)); err != nil {
		return 0, err
	}
	return v, nil
}

func (l *Library) SetScalarField(id uint64, f bridge.FieldID, v float32) error {
	return check("dc_set_scalar", l.setScalar(id, uint16(f), v))
}

// StringField copies the library's string before returning; the library
// pointer is only valid until its next call.
func (l *Library) StringField(id uint64, f bridge.FieldID) (string, error) {
	var ptr uintptr
	if err := check("dc_get_string", l.getString(id, uint16(f), &ptr)); err != nil {
		return "", err
	}
	return goString(ptr), nil
}

func (l *Library) SetStringField(id uint64, f bridge.FieldID, v string) error {
	b := cString(v)
	s := l.setString(id, uint16(f), &b[0])
	runtime.KeepAlive(b)
	return check("dc_set_string", s)
}

func (l *Library) LogMessage(level bridge.LogLevel, text string) {
	b := cString(text)
	l.logMessage(int32(level), &b[0])
	runtime.KeepAlive(b)
}

func (l *Library) IsKeyPressed(k bridge.Key) bool {
	return l.isKeyPressed(int32(k)) != 0
}

func (l *Library) IsMouseButtonPressed(b bridge.MouseButton) bool {
	return l.isButtonPressed(int32(b)) != 0
}

// Tick advances the library's scene by dt seconds. Event callbacks fire on
// the calling goroutine before Tick returns.
func (l *Library) Tick(dt float32) error {
	return check("update", l.update(dt))
}

// endTickBatch is how many removed ids one dc_end_tick call reports.
const endTickBatch = 256

// EndTick applies queued removals and returns the removed ids. The library
// hands them out in batches; a full batch means more may follow.
func (l *Library) EndTick() ([]uint64, error) {
	var out []uint64
	buf := make([]uint64, endTickBatch)
	for {
		var n int32
		if err := check("end tick", l.endTick(&buf[0], endTickBatch, &n)); err != nil {
			return out, err
		}
		n = min(max(n, 0), endTickBatch)
		out = append(out, buf[:n]...)
		if n < endTickBatch {
			return out, nil
		}
	}
}

// ─── Event callbacks ─────────────────────────────────────────────────────────

// purego callbacks are never freed, so the six trampolines are created once
// per process and forward to whichever relay is attached.
var (
	callbackOnce sync.Once
	callbacks    [6]uintptr

	attachMu sync.Mutex
	owner    *Library
	current  *bridge.Relay
)

func relay() *bridge.Relay {
	attachMu.Lock()
	defer attachMu.Unlock()
	return current
}

func makeCallbacks() {
	contact := func(deliver func(r *bridge.Relay, target, other uint64)) uintptr {
		return purego.NewCallback(func(target, other uint64) {
			if r := relay(); r != nil {
				deliver(r, target, other)
			}
		})
	}
	key := func(deliver func(r *bridge.Relay, target uint64, key bridge.Key)) uintptr {
		return purego.NewCallback(func(target uint64, k int32) {
			if r := relay(); r != nil {
				deliver(r, target, bridge.Key(k))
			}
		})
	}
	callbacks = [6]uintptr{
		contact((*bridge.Relay).OnCollisionBegin),
		contact((*bridge.Relay).OnCollisionEnd),
		contact((*bridge.Relay).OnTriggerBegin),
		contact((*bridge.Relay).OnTriggerEnd),
		key((*bridge.Relay).OnKeyPress),
		key((*bridge.Relay).OnKeyRelease),
	}
}

// Attach routes the library's event callbacks into r. The library calls
// them on its update thread, which must be the goroutine driving scripts.
func (l *Library) Attach(r *bridge.Relay) {
	callbackOnce.Do(makeCallbacks)
	attachMu.Lock()
	owner, current = l, r
	attachMu.Unlock()
	l.setCallbacks(callbacks[0], callbacks[1], callbacks[2], callbacks[3], callbacks[4], callbacks[5])
}

func detach(l *Library) {
	attachMu.Lock()
	defer attachMu.Unlock()
	if owner == l {
		owner, current = nil, nil
	}
}

var (
	_ bridge.Native        = (*Library)(nil)
	_ bridge.EntityChecker = (*Library)(nil)
	_ bridge.Input         = (*Library)(nil)
)

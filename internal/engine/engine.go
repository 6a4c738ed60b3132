// Package engine is the in-process native side of the bridge: an entity
// store with physics contacts and key input, answering every boundary call
// the bridge makes.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"scriptbridge/internal/bridge"
	"scriptbridge/internal/component"
	"scriptbridge/internal/ecs"
	"scriptbridge/internal/system"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// ErrNoScene is returned by every boundary call while no scene is loaded.
var ErrNoScene = errors.New("no active scene")

// Events receives the notifications the engine raises during a tick.
// *bridge.Relay satisfies it.
type Events interface {
	OnCollisionBegin(target, other uint64)
	OnCollisionEnd(target, other uint64)
	OnTriggerBegin(target, other uint64)
	OnTriggerEnd(target, other uint64)
	BroadcastKeyPress(key bridge.Key)
	BroadcastKeyRelease(key bridge.Key)
}

// LogEntry is one diagnostics message kept for display.
type LogEntry struct {
	Tick  uint64
	Level bridge.LogLevel
	Text  string
}

// Engine owns the active scene. It is not safe for concurrent use: every
// call is expected on the tick goroutine.
type Engine struct {
	world    *ecs.World
	contacts *system.ContactTracker
	events   Events
	log      zerolog.Logger
	gravity  mgl32.Vec3

	keys    map[bridge.Key]bool
	buttons map[bridge.MouseButton]bool

	onRemoved []func(id uint64)
	recent    []LogEntry
	keep      int
	tick      uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithGravity sets the acceleration applied to dynamic bodies.
func WithGravity(g mgl32.Vec3) Option {
	return func(e *Engine) { e.gravity = g }
}

// WithEvents sets the notification sink. See also SetEvents.
func WithEvents(ev Events) Option {
	return func(e *Engine) { e.events = ev }
}

// WithRecentLogs sets how many diagnostics RecentLogs keeps.
func WithRecentLogs(n int) Option {
	return func(e *Engine) { e.keep = n }
}

// New returns an engine with no active scene.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:     zerolog.Nop(),
		gravity: system.DefaultGravity,
		keys:    make(map[bridge.Key]bool),
		buttons: make(map[bridge.MouseButton]bool),
		keep:    8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetEvents replaces the notification sink. The relay is usually created
// after the engine, so this is the common way to connect it.
func (e *Engine) SetEvents(ev Events) { e.events = ev }

// OnEntityRemoved registers fn to run for every entity EndTick removes.
func (e *Engine) OnEntityRemoved(fn func(id uint64)) {
	e.onRemoved = append(e.onRemoved, fn)
}

// ─── Scene lifecycle ─────────────────────────────────────────────────────────

// LoadScene replaces any active scene with an empty one.
func (e *Engine) LoadScene() {
	e.world = ecs.NewWorld()
	e.contacts = system.NewContactTracker()
	e.tick = 0
	e.log.Info().Msg("scene loaded")
}

// UnloadScene drops the active scene. Handles into it stop resolving.
func (e *Engine) UnloadScene() {
	if e.world == nil {
		return
	}
	e.log.Info().Int("entities", e.world.Count()).Msg("scene unloaded")
	e.world = nil
	e.contacts = nil
}

// Active reports whether a scene is loaded.
func (e *Engine) Active() bool { return e.world != nil }

// World exposes the store for read-only consumers such as the renderer.
// It is nil without an active scene.
func (e *Engine) World() *ecs.World { return e.world }

// Handles lists live entities in id order, pending removals included.
func (e *Engine) Handles() []bridge.Handle {
	if e.world == nil {
		return nil
	}
	ids := e.world.Entities()
	out := make([]bridge.Handle, len(ids))
	for i, id := range ids {
		out[i] = bridge.Handle(id)
	}
	return out
}

// TickCount returns the number of completed ticks in the active scene.
func (e *Engine) TickCount() uint64 { return e.tick }

// ─── Per-tick systems ────────────────────────────────────────────────────────

// Tick integrates physics by dt seconds and delivers contact changes to the
// events sink. Scripts run before Tick, so positions they set this tick are
// what the contacts see.
func (e *Engine) Tick(dt float32) error {
	if e.world == nil {
		return ErrNoScene
	}
	system.Integrate(e.world, dt, e.gravity)
	for _, c := range e.contacts.Step(e.world) {
		e.deliver(c)
	}
	return nil
}

func (e *Engine) deliver(c system.Contact) {
	// A handler may unload the scene mid-delivery.
	if e.events == nil || e.world == nil {
		return
	}
	var send func(target, other uint64)
	switch {
	case c.Trigger && c.Phase == system.ContactBegin:
		send = e.events.OnTriggerBegin
	case c.Trigger:
		send = e.events.OnTriggerEnd
	case c.Phase == system.ContactBegin:
		send = e.events.OnCollisionBegin
	default:
		send = e.events.OnCollisionEnd
	}
	// A handler for A may remove B; removal is deferred so B still gets its
	// notification this tick.
	if e.world.Alive(c.A) {
		send(uint64(c.A), uint64(c.B))
	}
	if e.world == nil {
		return
	}
	if e.world.Alive(c.B) {
		send(uint64(c.B), uint64(c.A))
	}
}

// EndTick applies queued removals, runs the removal hooks and returns the
// removed ids in the order they were requested.
func (e *Engine) EndTick() []uint64 {
	if e.world == nil {
		return nil
	}
	e.tick++
	flushed := e.world.Flush()
	if len(flushed) == 0 {
		return nil
	}
	ids := make([]uint64, len(flushed))
	for i, id := range flushed {
		ids[i] = uint64(id)
		for _, fn := range e.onRemoved {
			fn(uint64(id))
		}
	}
	e.log.Debug().Int("count", len(ids)).Uint64("tick", e.tick).Msg("entities removed")
	return ids
}

// ─── Boundary calls ──────────────────────────────────────────────────────────

func (e *Engine) CreateEntity(name string) (uint64, error) {
	if e.world == nil {
		return 0, ErrNoScene
	}
	id := e.world.CreateEntity()
	e.world.Add(id, component.Name{Name: name})
	e.world.Add(id, component.NewTransform(mgl32.Vec3{}))
	return uint64(id), nil
}

func (e *Engine) RemoveEntity(id uint64) error {
	if e.world == nil {
		return ErrNoScene
	}
	e.world.QueueDestroy(ecs.EntityID(id))
	return nil
}

func (e *Engine) EntityExists(id uint64) (bool, error) {
	if e.world == nil {
		return false, ErrNoScene
	}
	return e.world.Alive(ecs.EntityID(id)), nil
}

func (e *Engine) HasComponent(id uint64, t bridge.TypeToken) (bool, error) {
	if e.world == nil {
		return false, ErrNoScene
	}
	ct, ok := componentTypes[t]
	if !ok {
		return false, nil
	}
	eid := ecs.EntityID(id)
	return e.world.Alive(eid) && e.world.Has(eid, ct), nil
}

func (e *Engine) CreateComponent(id uint64, t bridge.TypeToken) error {
	if e.world == nil {
		return ErrNoScene
	}
	ct, ok := componentTypes[t]
	if !ok {
		return fmt.Errorf("token %d: %w", t, bridge.ErrUnknownComponent)
	}
	eid := ecs.EntityID(id)
	if !e.world.Alive(eid) {
		return fmt.Errorf("entity %d: %w", id, bridge.ErrComponentAbsent)
	}
	if !e.world.Has(eid, ct) {
		e.world.Add(eid, defaults[ct]())
	}
	return nil
}

// lookup finds the component that owns a field.
func (e *Engine) lookup(id uint64, comp ecs.ComponentType) (ecs.EntityID, ecs.Component, error) {
	if e.world == nil {
		return 0, nil, ErrNoScene
	}
	eid := ecs.EntityID(id)
	if !e.world.Alive(eid) {
		return 0, nil, fmt.Errorf("entity %d: %w", id, bridge.ErrComponentAbsent)
	}
	c := e.world.Get(eid, comp)
	if c == nil {
		return 0, nil, fmt.Errorf("entity %d component %d: %w", id, comp, bridge.ErrComponentAbsent)
	}
	return eid, c, nil
}

func unknownField(f bridge.FieldID) error {
	return fmt.Errorf("field %d: %w", f, bridge.ErrUnknownField)
}

func (e *Engine) Vector3Field(id uint64, f bridge.FieldID) (x, y, z float32, err error) {
	vf, ok := vectorFields[f]
	if !ok {
		return 0, 0, 0, unknownField(f)
	}
	_, c, err := e.lookup(id, vf.comp)
	if err != nil {
		return 0, 0, 0, err
	}
	v := vf.get(c)
	return v[0], v[1], v[2], nil
}

func (e *Engine) SetVector3Field(id uint64, f bridge.FieldID, x, y, z float32) error {
	vf, ok := vectorFields[f]
	if !ok {
		return unknownField(f)
	}
	eid, c, err := e.lookup(id, vf.comp)
	if err != nil {
		return err
	}
	e.world.Add(eid, vf.set(c, mgl32.Vec3{x, y, z}))
	return nil
}

func (e *Engine) ScalarField(id uint64, f bridge.FieldID) (float32, error) {
	sf, ok := scalarFields[f]
	if !ok {
		return 0, unknownField(f)
	}
	_, c, err := e.lookup(id, sf.comp)
	if err != nil {
		return 0, err
	}
	return sf.get(c), nil
}

func (e *Engine) SetScalarField(id uint64, f bridge.FieldID, v float32) error {
	sf, ok := scalarFields[f]
	if !ok {
		return unknownField(f)
	}
	if sf.set == nil {
		return fmt.Errorf("field %d: %w", f, bridge.ErrReadOnlyField)
	}
	eid, c, err := e.lookup(id, sf.comp)
	if err != nil {
		return err
	}
	e.world.Add(eid, sf.set(c, v))
	return nil
}

func (e *Engine) StringField(id uint64, f bridge.FieldID) (string, error) {
	sf, ok := stringFields[f]
	if !ok {
		return "", unknownField(f)
	}
	_, c, err := e.lookup(id, sf.comp)
	if err != nil {
		return "", err
	}
	return strings.Clone(sf.get(c)), nil
}

func (e *Engine) SetStringField(id uint64, f bridge.FieldID, v string) error {
	sf, ok := stringFields[f]
	if !ok {
		return unknownField(f)
	}
	eid, c, err := e.lookup(id, sf.comp)
	if err != nil {
		return err
	}
	e.world.Add(eid, sf.set(c, strings.Clone(v)))
	return nil
}

// ─── Diagnostics ─────────────────────────────────────────────────────────────

// LogMessage writes a diagnostics message at the matching zerolog level and
// keeps it for RecentLogs.
func (e *Engine) LogMessage(level bridge.LogLevel, text string) {
	var ev *zerolog.Event
	switch level {
	case bridge.LogDebug:
		ev = e.log.Debug()
	case bridge.LogWarn:
		ev = e.log.Warn()
	case bridge.LogError:
		ev = e.log.Error()
	default:
		ev = e.log.Info()
	}
	ev.Str("source", "bridge").Uint64("tick", e.tick).Msg(text)

	if e.keep <= 0 {
		return
	}
	e.recent = append(e.recent, LogEntry{Tick: e.tick, Level: level, Text: text})
	if over := len(e.recent) - e.keep; over > 0 {
		e.recent = append(e.recent[:0], e.recent[over:]...)
	}
}

// RecentLogs returns the last diagnostics, oldest first.
func (e *Engine) RecentLogs() []LogEntry {
	return append([]LogEntry(nil), e.recent...)
}

// ─── Input ───────────────────────────────────────────────────────────────────

// PressKey marks k as held and, on the transition, broadcasts a key press.
func (e *Engine) PressKey(k bridge.Key) {
	if e.keys[k] {
		return
	}
	e.keys[k] = true
	if e.events != nil {
		e.events.BroadcastKeyPress(k)
	}
}

// ReleaseKey clears k and, on the transition, broadcasts a key release.
func (e *Engine) ReleaseKey(k bridge.Key) {
	if !e.keys[k] {
		return
	}
	delete(e.keys, k)
	if e.events != nil {
		e.events.BroadcastKeyRelease(k)
	}
}

// HeldKeys returns the keys currently held.
func (e *Engine) HeldKeys() []bridge.Key {
	out := make([]bridge.Key, 0, len(e.keys))
	for k := range e.keys {
		out = append(out, k)
	}
	return out
}

// SetMouseButton records a button state.
func (e *Engine) SetMouseButton(b bridge.MouseButton, down bool) {
	if down {
		e.buttons[b] = true
	} else {
		delete(e.buttons, b)
	}
}

func (e *Engine) IsKeyPressed(k bridge.Key) bool { return e.keys[k] }

func (e *Engine) IsMouseButtonPressed(b bridge.MouseButton) bool { return e.buttons[b] }

var (
	_ bridge.Native        = (*Engine)(nil)
	_ bridge.EntityChecker = (*Engine)(nil)
	_ bridge.Input         = (*Engine)(nil)
	_ Events               = (*bridge.Relay)(nil)
)

package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"scriptbridge/internal/bridge"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T) (*Engine, *bridge.Bridge) {
	t.Helper()
	e := New(WithGravity(mgl32.Vec3{0, -10, 0}))
	e.LoadScene()
	b := bridge.New(e)
	e.SetEvents(b.Relay())
	return e, b
}

func TestNoSceneIsUnavailable(t *testing.T) {
	e := New()
	b := bridge.New(e)
	if _, err := b.CreateEntity("x"); !errors.Is(err, bridge.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	if _, err := b.CreateEntity("x"); !errors.Is(err, ErrNoScene) {
		t.Fatalf("expected ErrNoScene in the chain, got %v", err)
	}
	if err := e.Tick(0.1); !errors.Is(err, ErrNoScene) {
		t.Fatalf("Tick without scene: %v", err)
	}
}

func TestCreateEntityHasNameAndTransform(t *testing.T) {
	_, b := newTestEngine(t)
	h, err := b.CreateEntity("Wizard")
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	name, err := b.Name(h)
	if err != nil || name != "Wizard" {
		t.Fatalf("Name = %q, %v", name, err)
	}
	tr, ok := b.Transform(h)
	if !ok {
		t.Fatal("expected transform")
	}
	scale, _ := tr.Scale()
	if scale != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("expected unit scale, got %v", scale)
	}
	if b.HasComponent(h, bridge.RigidBodyType) {
		t.Fatal("new entity should have no rigid body")
	}
}

func TestGravityDisabledBodyKeepsVelocity(t *testing.T) {
	e, b := newTestEngine(t)
	h, _ := b.CreateEntity("Ball")
	rb, err := b.CreateRigidBody(h)
	if err != nil {
		t.Fatalf("CreateRigidBody: %v", err)
	}
	rb.SetGravityDisabled(true)
	rb.SetLinearVelocity(mgl32.Vec3{0, 1, 0})

	if err := e.Tick(1); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	vel, _ := rb.LinearVelocity()
	if vel != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("velocity changed to %v", vel)
	}
	tr, _ := b.Transform(h)
	pos, _ := tr.Position()
	if pos != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected position (0,1,0), got %v", pos)
	}

	rb.SetGravityDisabled(false)
	e.Tick(1)
	vel, _ = rb.LinearVelocity()
	if vel != (mgl32.Vec3{0, -9, 0}) {
		t.Fatalf("gravity should apply again, velocity %v", vel)
	}
}

func TestRemovalIsDeferredToEndTick(t *testing.T) {
	e, b := newTestEngine(t)
	h, _ := b.CreateEntity("Doomed")
	rb, _ := b.CreateRigidBody(h)

	var hooked []uint64
	e.OnEntityRemoved(func(id uint64) { hooked = append(hooked, id) })

	b.RemoveEntity(h)
	b.RemoveEntity(h)
	if !b.Alive(h) {
		t.Fatal("entity should survive until EndTick")
	}
	if _, err := rb.Mass(); err != nil {
		t.Fatalf("component should still read before EndTick: %v", err)
	}

	removed := e.EndTick()
	if len(removed) != 1 || removed[0] != h.ID() {
		t.Fatalf("expected [%d], got %v", h.ID(), removed)
	}
	if len(hooked) != 1 || hooked[0] != h.ID() {
		t.Fatalf("removal hook saw %v", hooked)
	}
	if b.Alive(h) {
		t.Fatal("entity should be gone")
	}
	if _, err := rb.Mass(); !errors.Is(err, bridge.ErrComponentAbsent) {
		t.Fatalf("expected ErrComponentAbsent, got %v", err)
	}
	if err := b.RemoveEntity(h); err != nil {
		t.Fatalf("removing a gone entity: %v", err)
	}
}

func spawnSphere(t *testing.T, b *bridge.Bridge, name string, pos mgl32.Vec3, trigger bool) bridge.Handle {
	t.Helper()
	h, err := b.CreateEntity(name)
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	tr, _ := b.Transform(h)
	tr.SetPosition(pos)
	sc, err := b.CreateSphereCollider(h)
	if err != nil {
		t.Fatalf("CreateSphereCollider: %v", err)
	}
	sc.SetTrigger(trigger)
	return h
}

func TestContactsReachBothParticipants(t *testing.T) {
	e, b := newTestEngine(t)
	a := spawnSphere(t, b, "A", mgl32.Vec3{}, false)
	c := spawnSphere(t, b, "B", mgl32.Vec3{0.5, 0, 0}, false)

	var got []bridge.Event
	record := func(ev bridge.Event) error { got = append(got, ev); return nil }
	b.Relay().Subscribe(a, bridge.CollisionBegin, record)
	b.Relay().Subscribe(c, bridge.CollisionBegin, record)
	b.Relay().Subscribe(a, bridge.CollisionEnd, record)

	e.Tick(0.1)
	if len(got) != 2 {
		t.Fatalf("expected 2 begin events, got %+v", got)
	}
	if got[0].Target != a || got[0].Other != c || got[1].Target != c || got[1].Other != a {
		t.Fatalf("unexpected delivery %+v", got)
	}

	got = nil
	b.RemoveEntity(c)
	e.EndTick()
	e.Tick(0.1)
	if len(got) != 1 || got[0].Category != bridge.CollisionEnd || got[0].Other != c {
		t.Fatalf("expected end for the survivor, got %+v", got)
	}
}

func TestTriggerCategory(t *testing.T) {
	e, b := newTestEngine(t)
	zone := spawnSphere(t, b, "Zone", mgl32.Vec3{}, true)
	spawnSphere(t, b, "Walker", mgl32.Vec3{0.2, 0, 0}, false)

	var cats []bridge.Category
	b.Relay().Subscribe(zone, bridge.TriggerBegin, func(ev bridge.Event) error {
		cats = append(cats, ev.Category)
		return nil
	})
	b.Relay().Subscribe(zone, bridge.CollisionBegin, func(ev bridge.Event) error {
		t.Error("trigger overlap must not raise a collision")
		return nil
	})
	e.Tick(0.1)
	if len(cats) != 1 || cats[0] != bridge.TriggerBegin {
		t.Fatalf("expected one trigger begin, got %v", cats)
	}
}

func TestDestroyInHandlerStillNotifiesOther(t *testing.T) {
	e, b := newTestEngine(t)
	bullet := spawnSphere(t, b, "Bullet", mgl32.Vec3{}, false)
	enemy := spawnSphere(t, b, "Enemy", mgl32.Vec3{0.1, 0, 0}, false)

	b.Relay().Subscribe(bullet, bridge.CollisionBegin, func(ev bridge.Event) error {
		if err := b.RemoveEntity(ev.Other); err != nil {
			return err
		}
		return b.RemoveEntity(ev.Target)
	})
	enemyHit := 0
	b.Relay().Subscribe(enemy, bridge.CollisionBegin, func(bridge.Event) error {
		enemyHit++
		return nil
	})

	e.Tick(0.1)
	if enemyHit != 1 {
		t.Fatalf("enemy should still be notified this tick, got %d", enemyHit)
	}
	removed := e.EndTick()
	if len(removed) != 2 || removed[0] != enemy.ID() || removed[1] != bullet.ID() {
		t.Fatalf("expected enemy then bullet removed, got %v", removed)
	}
}

func TestKeyInput(t *testing.T) {
	e, b := newTestEngine(t)
	h, _ := b.CreateEntity("Player")
	presses := 0
	b.Relay().Subscribe(h, bridge.KeyPress, func(ev bridge.Event) error {
		if ev.Key != bridge.KeySpace {
			t.Errorf("expected space, got %v", ev.Key)
		}
		presses++
		return nil
	})

	e.PressKey(bridge.KeySpace)
	e.PressKey(bridge.KeySpace)
	if presses != 1 {
		t.Fatalf("a held key should broadcast once, got %d", presses)
	}
	if !e.IsKeyPressed(bridge.KeySpace) {
		t.Fatal("space should read as pressed")
	}
	e.ReleaseKey(bridge.KeySpace)
	if e.IsKeyPressed(bridge.KeySpace) {
		t.Fatal("space should be released")
	}

	e.SetMouseButton(bridge.MouseLeft, true)
	if !e.IsMouseButtonPressed(bridge.MouseLeft) || e.IsMouseButtonPressed(bridge.MouseRight) {
		t.Fatal("unexpected mouse state")
	}
}

func TestLogMessageLevels(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithLogger(zerolog.New(&buf)), WithRecentLogs(2))
	e.LogMessage(bridge.LogWarn, "first")
	e.LogMessage(bridge.LogError, "second")
	e.LogMessage(bridge.LogInfo, "third")

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("levels not mapped: %s", out)
	}
	recent := e.RecentLogs()
	if len(recent) != 2 || recent[0].Text != "second" || recent[1].Text != "third" {
		t.Fatalf("unexpected recent logs %+v", recent)
	}
}

func TestBodyTypeIsReadOnlyNatively(t *testing.T) {
	e, b := newTestEngine(t)
	h, _ := b.CreateEntity("Ball")
	b.CreateRigidBody(h)
	if err := e.SetScalarField(h.ID(), bridge.FieldBodyType, 0); !errors.Is(err, bridge.ErrReadOnlyField) {
		t.Fatalf("expected ErrReadOnlyField, got %v", err)
	}
}

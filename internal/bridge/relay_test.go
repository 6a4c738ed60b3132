package bridge

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestCategoryNames(t *testing.T) {
	for c := CollisionBegin; c <= KeyRelease; c++ {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCategory("explode"); ok {
		t.Fatal("unknown category should not parse")
	}
}

func TestSubscribeNilTarget(t *testing.T) {
	r := NewRelay(newFakeNative())
	if _, err := r.Subscribe(Nil, KeyPress, func(Event) error { return nil }); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle, got %v", err)
	}
}

func TestDispatchRegistrationOrder(t *testing.T) {
	r := NewRelay(newFakeNative())
	var order []string
	for _, name := range []string{"H1", "H2"} {
		name := name
		r.Subscribe(1, CollisionBegin, func(ev Event) error {
			if ev.Other != 2 && ev.Other != 3 {
				t.Errorf("%s: unexpected other %v", name, ev.Other)
			}
			order = append(order, name+"/"+ev.Other.String())
			return nil
		})
	}
	r.OnCollisionBegin(1, 2)
	r.OnCollisionBegin(1, 3)
	want := []string{"H1/entity#2", "H2/entity#2", "H1/entity#3", "H2/entity#3"}
	if !slices.Equal(order, want) {
		t.Fatalf("dispatch order %v, want %v", order, want)
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	n := newFakeNative()
	r := NewRelay(n)
	var failures []*SubscriberFailure
	r.OnFailure(func(f *SubscriberFailure) { failures = append(failures, f) })

	boom := errors.New("boom")
	calls := 0
	r.Subscribe(1, TriggerBegin, func(Event) error { calls++; return boom })
	r.Subscribe(1, TriggerBegin, func(Event) error { calls++; panic("listener exploded") })
	r.Subscribe(1, TriggerBegin, func(Event) error { calls++; return nil })

	r.OnTriggerBegin(1, 5)

	if calls != 3 {
		t.Fatalf("every listener should run, got %d calls", calls)
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	if !errors.Is(failures[0], boom) || failures[0].Index != 0 {
		t.Fatalf("first failure should wrap boom at index 0, got %v", failures[0])
	}
	if failures[1].Index != 1 || !strings.Contains(failures[1].Error(), "listener exploded") {
		t.Fatalf("second failure should be the panic at index 1, got %v", failures[1])
	}
	if got := n.logged(LogError); len(got) != 2 {
		t.Fatalf("expected 2 error logs, got %v", got)
	}
}

func TestDispatchWithoutSubscribersIsSilent(t *testing.T) {
	n := newFakeNative()
	r := NewRelay(n)
	r.OnCollisionEnd(4, 9)
	r.OnKeyPress(4, KeySpace)
	if len(n.logs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", n.logs)
	}
}

func TestZeroOtherIsDropped(t *testing.T) {
	n := newFakeNative()
	r := NewRelay(n)
	called := false
	r.Subscribe(1, CollisionBegin, func(Event) error { called = true; return nil })
	r.OnCollisionBegin(1, 0)
	if called {
		t.Fatal("event with nil other should not be delivered")
	}
	if len(n.logged(LogWarn)) != 1 {
		t.Fatalf("expected one warning, got %v", n.logs)
	}
}

func TestSubscribeDuringDispatchUsesSnapshot(t *testing.T) {
	r := NewRelay(newFakeNative())
	late := 0
	r.Subscribe(1, KeyPress, func(Event) error {
		r.Subscribe(1, KeyPress, func(Event) error { late++; return nil })
		return nil
	})
	r.OnKeyPress(1, KeyA)
	if late != 0 {
		t.Fatal("listener added during dispatch must not see the current event")
	}
	if r.Count(1, KeyPress) != 2 {
		t.Fatalf("expected 2 listeners, got %d", r.Count(1, KeyPress))
	}
	r.OnKeyPress(1, KeyA)
	if late != 1 {
		t.Fatalf("late listener should see the next event, got %d", late)
	}
}

func TestCancelDuringDispatch(t *testing.T) {
	r := NewRelay(newFakeNative())
	var second Subscription
	secondCalls := 0
	r.Subscribe(1, CollisionBegin, func(Event) error { second.Cancel(); return nil })
	second, _ = r.Subscribe(1, CollisionBegin, func(Event) error { secondCalls++; return nil })

	r.OnCollisionBegin(1, 2)
	r.OnCollisionBegin(1, 2)
	if secondCalls != 1 {
		t.Fatalf("cancelled listener should finish the in-flight event only, got %d calls", secondCalls)
	}
	second.Cancel()
	if r.Count(1, CollisionBegin) != 1 {
		t.Fatalf("expected 1 listener, got %d", r.Count(1, CollisionBegin))
	}
}

func TestDestroyInHandler(t *testing.T) {
	b, n := newTestBridge()
	a, _ := b.CreateEntity("Projectile")
	target, _ := b.CreateEntity("Enemy")
	rb, _ := b.CreateRigidBody(target)

	after := 0
	b.Relay().Subscribe(a, CollisionBegin, func(ev Event) error {
		if err := b.RemoveEntity(ev.Other); err != nil {
			return err
		}
		return b.RemoveEntity(ev.Target)
	})
	b.Relay().Subscribe(a, CollisionBegin, func(ev Event) error {
		after++
		// Removal is deferred, so the other entity is still readable here.
		_, err := rb.Mass()
		return err
	})

	b.Relay().OnCollisionBegin(a.ID(), target.ID())
	if after != 1 {
		t.Fatal("second listener should still run after the first removed entities")
	}
	if len(n.logged(LogError)) != 0 {
		t.Fatalf("unexpected failures: %v", n.logs)
	}
	n.flush()
	b.Relay().Drop(a)
	if b.Alive(a) || b.Alive(target) {
		t.Fatal("both entities should be gone after flush")
	}
	if _, err := rb.Mass(); !errors.Is(err, ErrComponentAbsent) {
		t.Fatalf("expected ErrComponentAbsent, got %v", err)
	}
	if b.Relay().Count(a, CollisionBegin) != 0 {
		t.Fatal("Drop should clear subscriptions")
	}
}

func TestTriggerAfterSelfRemoval(t *testing.T) {
	b, n := newTestBridge()
	a, _ := b.CreateEntity("Pickup")
	other, _ := b.CreateEntity("Player")
	var failures []*SubscriberFailure
	b.Relay().OnFailure(func(f *SubscriberFailure) { failures = append(failures, f) })

	calls := 0
	b.Relay().Subscribe(a, TriggerBegin, func(ev Event) error {
		calls++
		return b.RemoveEntity(ev.Target)
	})

	b.Relay().OnTriggerBegin(a.ID(), other.ID())
	n.flush()
	if b.Alive(a) {
		t.Fatal("entity should be gone after flush")
	}
	b.Relay().OnTriggerBegin(a.ID(), other.ID())

	if calls != 2 {
		t.Fatalf("expected the listener to see both notifications, got %d", calls)
	}
	if len(failures) != 0 || len(n.logged(LogError)) != 0 {
		t.Fatalf("late notification for a removed entity should be harmless, got %v / %v", failures, n.logs)
	}
	if !b.Alive(other) {
		t.Fatal("the other entity must survive")
	}
}

func TestBroadcastKeyOrder(t *testing.T) {
	r := NewRelay(newFakeNative())
	var got []Handle
	record := func(ev Event) error {
		if ev.Key != KeySpace {
			t.Errorf("expected space, got %v", ev.Key)
		}
		got = append(got, ev.Target)
		return nil
	}
	r.Subscribe(7, KeyPress, record)
	r.Subscribe(3, KeyPress, record)
	r.Subscribe(5, KeyRelease, record)
	r.Subscribe(7, KeyPress, record)

	r.BroadcastKeyPress(KeySpace)
	want := []Handle{7, 7, 3}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}

	got = nil
	r.BroadcastKeyRelease(KeySpace)
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("release should only reach entity 5, got %v", got)
	}
}

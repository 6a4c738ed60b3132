package bridge

import (
	"cmp"
	"fmt"
	"slices"
)

// Category is the kind of notification a listener subscribes to.
type Category uint8

const (
	CollisionBegin Category = iota + 1
	CollisionEnd
	TriggerBegin
	TriggerEnd
	KeyPress
	KeyRelease
)

var categoryNames = [...]string{
	CollisionBegin: "collision_begin",
	CollisionEnd:   "collision_end",
	TriggerBegin:   "trigger_begin",
	TriggerEnd:     "trigger_end",
	KeyPress:       "key_press",
	KeyRelease:     "key_release",
}

func (c Category) String() string {
	if c >= CollisionBegin && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory maps a category name such as "trigger_begin" to its value.
func ParseCategory(s string) (Category, bool) {
	for c := CollisionBegin; int(c) < len(categoryNames); c++ {
		if categoryNames[c] == s {
			return c, true
		}
	}
	return 0, false
}

// Event is one notification. Other is set for contact categories, Key for
// key categories.
type Event struct {
	Category Category
	Target   Handle
	Other    Handle
	Key      Key
}

// Listener handles one event. A returned error or a panic is reported to the
// diagnostics sink; it never stops dispatch to the remaining listeners.
type Listener func(Event) error

type relayKey struct {
	target   Handle
	category Category
}

type subscriber struct {
	id       uint64
	listener Listener
}

// Relay routes native notifications to the listeners subscribed for the
// (entity, category) pair, in registration order.
type Relay struct {
	sink     Sink
	subs     map[relayKey][]*subscriber
	keyOrder map[Handle]uint64 // first key subscription sequence per entity
	nextID   uint64
	onFail   func(*SubscriberFailure)
}

// NewRelay creates a relay that reports listener failures to sink.
func NewRelay(sink Sink) *Relay {
	return &Relay{
		sink:     sink,
		subs:     make(map[relayKey][]*subscriber),
		keyOrder: make(map[Handle]uint64),
	}
}

// OnFailure installs a hook that sees every listener failure after it has
// been logged.
func (r *Relay) OnFailure(fn func(*SubscriberFailure)) { r.onFail = fn }

// Subscription identifies one registered listener.
type Subscription struct {
	relay *Relay
	key   relayKey
	id    uint64
}

// Cancel removes the listener. Cancelling twice is a no-op. A listener
// cancelled during dispatch still runs for the event in flight.
func (s Subscription) Cancel() {
	if s.relay == nil {
		return
	}
	s.relay.remove(s.key, s.id)
}

// Subscribe registers l for category c on target.
func (r *Relay) Subscribe(target Handle, c Category, l Listener) (Subscription, error) {
	if !target.Valid() {
		return Subscription{}, fmt.Errorf("subscribe %s: %w", c, ErrInvalidHandle)
	}
	if c < CollisionBegin || int(c) >= len(categoryNames) {
		return Subscription{}, fmt.Errorf("subscribe on %s: unknown %s", target, c)
	}
	if l == nil {
		return Subscription{}, fmt.Errorf("subscribe %s on %s: nil listener", c, target)
	}
	r.nextID++
	k := relayKey{target, c}
	r.subs[k] = append(r.subs[k], &subscriber{id: r.nextID, listener: l})
	if c == KeyPress || c == KeyRelease {
		if _, ok := r.keyOrder[target]; !ok {
			r.keyOrder[target] = r.nextID
		}
	}
	return Subscription{relay: r, key: k, id: r.nextID}, nil
}

func (r *Relay) remove(k relayKey, id uint64) {
	list := r.subs[k]
	for i, s := range list {
		if s.id != id {
			continue
		}
		// Copy so an in-flight snapshot keeps its own backing array.
		next := make([]*subscriber, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.subs, k)
		} else {
			r.subs[k] = next
		}
		break
	}
	if k.category == KeyPress || k.category == KeyRelease {
		if r.Count(k.target, KeyPress)+r.Count(k.target, KeyRelease) == 0 {
			delete(r.keyOrder, k.target)
		}
	}
}

// Drop removes every subscription held for target.
func (r *Relay) Drop(target Handle) {
	for c := CollisionBegin; int(c) < len(categoryNames); c++ {
		delete(r.subs, relayKey{target, c})
	}
	delete(r.keyOrder, target)
}

// Count returns the number of listeners for (target, c).
func (r *Relay) Count(target Handle, c Category) int {
	return len(r.subs[relayKey{target, c}])
}

// ─── Native entry points ─────────────────────────────────────────────────────

func (r *Relay) OnCollisionBegin(target, other uint64) { r.contact(CollisionBegin, target, other) }
func (r *Relay) OnCollisionEnd(target, other uint64) { r.contact(CollisionEnd, target, other) }
func (r *Relay) OnTriggerBegin(target, other uint64) { r.contact(TriggerBegin, target, other) }
func (r *Relay) OnTriggerEnd(target, other uint64) { r.contact(TriggerEnd, target, other) }

func (r *Relay) OnKeyPress(target uint64, key Key) {
	r.dispatch(Event{Category: KeyPress, Target: Handle(target), Key: key})
}

func (r *Relay) OnKeyRelease(target uint64, key Key) {
	r.dispatch(Event{Category: KeyRelease, Target: Handle(target), Key: key})
}

// BroadcastKeyPress delivers a key press to every entity holding a key
// subscription, in the order the entities first subscribed.
func (r *Relay) BroadcastKeyPress(key Key) {
	for _, h := range r.keyTargets() {
		r.OnKeyPress(h.ID(), key)
	}
}

// BroadcastKeyRelease is BroadcastKeyPress for releases.
func (r *Relay) BroadcastKeyRelease(key Key) {
	for _, h := range r.keyTargets() {
		r.OnKeyRelease(h.ID(), key)
	}
}

func (r *Relay) keyTargets() []Handle {
	targets := make([]Handle, 0, len(r.keyOrder))
	for h := range r.keyOrder {
		targets = append(targets, h)
	}
	slices.SortFunc(targets, func(a, b Handle) int {
		return cmp.Compare(r.keyOrder[a], r.keyOrder[b])
	})
	return targets
}

func (r *Relay) contact(c Category, target, other uint64) {
	if other == 0 {
		r.log(LogWarn, fmt.Sprintf("%s on entity#%d: dropped, other entity is nil", c, target))
		return
	}
	r.dispatch(Event{Category: c, Target: Handle(target), Other: Handle(other)})
}

// dispatch invokes a snapshot of the listeners so that handlers may
// subscribe, cancel and remove entities while it runs.
func (r *Relay) dispatch(ev Event) {
	if !ev.Target.Valid() {
		r.log(LogWarn, fmt.Sprintf("%s: dropped, target entity is nil", ev.Category))
		return
	}
	list := r.subs[relayKey{ev.Target, ev.Category}]
	if len(list) == 0 {
		return
	}
	snapshot := append([]*subscriber(nil), list...)
	for i, s := range snapshot {
		if err := invoke(s.listener, ev); err != nil {
			f := &SubscriberFailure{Target: ev.Target, Category: ev.Category, Index: i, Err: err}
			r.log(LogError, f.Error())
			if r.onFail != nil {
				r.onFail(f)
			}
		}
	}
}

func invoke(l Listener, ev Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return l(ev)
}

func (r *Relay) log(level LogLevel, text string) {
	if r.sink != nil {
		r.sink.LogMessage(level, text)
	}
}

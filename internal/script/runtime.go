// Package script runs entity behaviours written in Lua against the bridge.
//
// A behaviour is a chunk that returns a table:
//
//	local Player = {}
//	function Player:on_create() self.speed = 4 end
//	function Player:on_update(dt) ... end
//	return Player
//
// Attach runs the chunk once per entity, so every entity gets its own
// table. Before on_create the runtime stores the entity in self.entity.
package script

import (
	"fmt"
	"io/fs"
	"path"

	"scriptbridge/internal/bridge"

	"github.com/Shopify/go-lua"
)

type instance struct {
	handle bridge.Handle
	path   string
	ref    int
}

// Runtime owns one Lua state. Like the bridge it is driven from the tick
// goroutine only.
type Runtime struct {
	l      *lua.State
	bridge *bridge.Bridge
	input  bridge.Input
	fsys   fs.FS

	refs      refTable
	chunks    map[string]int // path -> compiled chunk ref
	instances []*instance    // creation order
	byHandle  map[bridge.Handle]*instance
	listeners map[bridge.Handle][]listenerRef
	broken    map[bridge.Handle]string // path that failed to attach
	methods   map[string]lua.Function
}

type listenerRef struct {
	sub bridge.Subscription
	ref int
}

// New creates a runtime whose scripts reach the engine through b, poll
// input through in and are loaded from fsys.
func New(b *bridge.Bridge, in bridge.Input, fsys fs.FS) *Runtime {
	l := lua.NewState()
	lua.OpenLibraries(l)
	r := &Runtime{
		l:         l,
		bridge:    b,
		input:     in,
		fsys:      fsys,
		refs:      newRefTable(l),
		chunks:    make(map[string]int),
		byHandle:  make(map[bridge.Handle]*instance),
		listeners: make(map[bridge.Handle][]listenerRef),
		broken:    make(map[bridge.Handle]string),
	}
	r.methods = r.entityMethods()
	r.registerTypes()
	r.registerGlobals()
	return r
}

// State exposes the Lua state for embedding hosts that add their own
// globals before scripts are attached.
func (r *Runtime) State() *lua.State { return r.l }

// Exec runs a chunk of Lua source in the global environment.
func (r *Runtime) Exec(name, src string) error {
	top := r.l.Top()
	defer r.l.SetTop(top)
	if err := lua.LoadBuffer(r.l, src, name, "t"); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := r.l.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// compile loads the chunk at p once and leaves its function on the stack.
func (r *Runtime) compile(p string) error {
	if ref, ok := r.chunks[p]; ok {
		r.refs.push(ref)
		return nil
	}
	src, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return fmt.Errorf("read script %s: %w", p, err)
	}
	if err := lua.LoadBuffer(r.l, string(src), "@"+path.Base(p), "t"); err != nil {
		return fmt.Errorf("compile %s: %w", p, err)
	}
	r.l.PushValue(-1)
	r.chunks[p] = r.refs.store()
	return nil
}

// Attach instantiates the behaviour at p for h and runs its on_create.
// Attaching a second behaviour to the same entity replaces the first.
func (r *Runtime) Attach(h bridge.Handle, p string) error {
	if !h.Valid() {
		return fmt.Errorf("attach %s: %w", p, bridge.ErrInvalidHandle)
	}
	if _, ok := r.byHandle[h]; ok {
		r.Detach(h)
	}
	top := r.l.Top()
	defer r.l.SetTop(top)

	if err := r.compile(p); err != nil {
		return err
	}
	if err := r.l.ProtectedCall(0, 1, 0); err != nil {
		return fmt.Errorf("run %s: %w", p, err)
	}
	if !r.l.IsTable(-1) {
		return fmt.Errorf("script %s must return a table, got %s", p, lua.TypeNameOf(r.l, -1))
	}
	r.pushEntity(h)
	r.l.SetField(-2, "entity")

	r.l.PushValue(-1)
	inst := &instance{handle: h, path: p, ref: r.refs.store()}
	r.instances = append(r.instances, inst)
	r.byHandle[h] = inst

	if err := r.callMethod(inst, "on_create"); err != nil {
		r.bridge.Logf(bridge.LogError, "%s on_create for %s: %v", p, h, err)
	}
	return nil
}

// Detach drops the behaviour of h and every listener registered on h,
// whether or not h runs a behaviour.
func (r *Runtime) Detach(h bridge.Handle) {
	delete(r.broken, h)
	for _, lr := range r.listeners[h] {
		lr.sub.Cancel()
		r.refs.release(lr.ref)
	}
	delete(r.listeners, h)
	r.bridge.Relay().Drop(h)

	inst, ok := r.byHandle[h]
	if !ok {
		return
	}
	delete(r.byHandle, h)
	for i, in := range r.instances {
		if in == inst {
			r.instances = append(r.instances[:i], r.instances[i+1:]...)
			break
		}
	}
	r.refs.release(inst.ref)
}

// Sync attaches the behaviour named by the script component of every entity
// in hs that does not run one yet. Scripts that create scripted entities rely
// on this: the new entity starts on the next Sync.
func (r *Runtime) Sync(hs []bridge.Handle) {
	for _, h := range hs {
		if _, ok := r.byHandle[h]; ok {
			continue
		}
		sc, ok := r.bridge.Script(h)
		if !ok {
			continue
		}
		p, err := sc.Script()
		if err != nil || p == "" || r.broken[h] == p {
			continue
		}
		if err := r.Attach(h, p); err != nil {
			r.broken[h] = p
			r.bridge.Logf(bridge.LogError, "attach %s to %s: %v", p, h, err)
		}
	}
}

// Attached reports whether h runs a behaviour.
func (r *Runtime) Attached(h bridge.Handle) bool {
	_, ok := r.byHandle[h]
	return ok
}

// Instances returns the number of attached behaviours.
func (r *Runtime) Instances() int { return len(r.instances) }

// Update calls on_update(self, dt) on every behaviour in creation order.
// Behaviours attached during the pass start on the next one. A failing
// behaviour is logged and the pass continues.
func (r *Runtime) Update(dt float64) {
	snapshot := append([]*instance(nil), r.instances...)
	for _, inst := range snapshot {
		if r.byHandle[inst.handle] != inst {
			continue // detached by an earlier behaviour this pass
		}
		if err := r.callMethod(inst, "on_update", dt); err != nil {
			r.bridge.Logf(bridge.LogError, "%s on_update for %s: %v", inst.path, inst.handle, err)
		}
	}
}

// callMethod calls inst[name](inst, args...) if the function exists.
func (r *Runtime) callMethod(inst *instance, name string, args ...float64) error {
	top := r.l.Top()
	defer r.l.SetTop(top)
	r.refs.push(inst.ref)
	r.l.Field(-1, name)
	if !r.l.IsFunction(-1) {
		return nil
	}
	r.l.PushValue(-2)
	for _, a := range args {
		r.l.PushNumber(a)
	}
	return r.l.ProtectedCall(1+len(args), 0, 0)
}

// Close releases the Lua state. The runtime must not be used afterwards.
// Listeners on entities without a behaviour are cancelled too, so a relay
// shared with the next runtime never calls into this one.
func (r *Runtime) Close() {
	for _, inst := range append([]*instance(nil), r.instances...) {
		r.Detach(inst.handle)
	}
	for h := range r.listeners {
		r.Detach(h)
	}
	r.l = nil
}

// Package bridge is the boundary between scripts and the native engine's
// entity-component store. Scripts address entities through Handles and
// components through type tokens; every access is a fresh round trip to the
// Native implementation, which is the only source of truth.
//
// All calls are synchronous and expected on the engine's update goroutine.
// Nothing here locks: the engine serializes script execution within a tick.
package bridge

import "fmt"

// Bridge ties a Native engine to a component registry and an event relay.
type Bridge struct {
	native   Native
	registry *Registry
	relay    *Relay
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRegistry replaces the default component registry.
func WithRegistry(r *Registry) Option {
	return func(b *Bridge) { b.registry = r }
}

// New creates a Bridge over n.
func New(n Native, opts ...Option) *Bridge {
	b := &Bridge{native: n}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = DefaultRegistry()
	}
	b.relay = NewRelay(n)
	return b
}

// Registry returns the component registry in use.
func (b *Bridge) Registry() *Registry { return b.registry }

// Relay returns the event relay native code delivers notifications to.
func (b *Bridge) Relay() *Relay { return b.relay }

// Logf formats a message and writes it to the diagnostics sink.
func (b *Bridge) Logf(level LogLevel, format string, args ...any) {
	b.native.LogMessage(level, fmt.Sprintf(format, args...))
}

// Package game runs an interactive sandbox: a scene of scripted entities on
// a terminal screen.
package game

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"scriptbridge/internal/bridge"
	"scriptbridge/internal/config"
	"scriptbridge/internal/engine"
	"scriptbridge/internal/factory"
	"scriptbridge/internal/render"
	"scriptbridge/internal/script"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

// Options says where a session finds its content.
type Options struct {
	Config    config.Config
	Scenes    fs.FS
	ScenePath string
	Scripts   fs.FS
	Logger    zerolog.Logger
}

// Session owns one engine and everything wired to it. Every bridge call
// happens on the goroutine that calls Run (or Step and HandleEvent).
type Session struct {
	screen   tcell.Screen
	opts     Options
	log      zerolog.Logger
	eng      *engine.Engine
	bridge   *bridge.Bridge
	scripts  *script.Runtime
	renderer *render.Renderer
	keys     *keyLatch

	scene  string
	paused bool
	done   bool
	stats  SessionLog
}

// NewSession builds the engine, loads the scene and attaches its scripts.
func NewSession(screen tcell.Screen, opts Options) (*Session, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s := &Session{
		screen:   screen,
		opts:     opts,
		log:      opts.Logger,
		renderer: render.NewRenderer(screen),
		keys:     newKeyLatch(opts.Config.KeyHold),
		stats:    SessionLog{Started: time.Now()},
	}
	s.eng = engine.New(
		engine.WithLogger(opts.Logger),
		engine.WithGravity(opts.Config.GravityVec()),
		engine.WithRecentLogs(16),
	)
	s.bridge = bridge.New(s.eng)
	s.eng.SetEvents(s.bridge.Relay())
	s.eng.OnEntityRemoved(func(id uint64) { s.scripts.Detach(bridge.Handle(id)) })
	s.bridge.Relay().OnFailure(func(*bridge.SubscriberFailure) { s.stats.ListenerFailures++ })
	s.renderer.Follow("Player")

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load replaces the active scene with a fresh copy of the scene file. Each
// load gets its own Lua state, so globals from the previous run are gone.
func (s *Session) load() error {
	sf, err := factory.LoadScene(s.opts.Scenes, s.opts.ScenePath)
	if err != nil {
		return err
	}
	if s.scripts != nil {
		s.scripts.Close()
	}
	for _, k := range s.keys.clear() {
		s.eng.ReleaseKey(k)
	}
	s.eng.UnloadScene()
	s.eng.LoadScene()
	s.scripts = script.New(s.bridge, s.eng, s.opts.Scripts)

	out, err := factory.Spawn(s.bridge, sf)
	if err != nil {
		return fmt.Errorf("scene %s: %w", sf.Name, err)
	}
	for _, sc := range out.Scripted {
		if err := s.scripts.Attach(sc.Handle, sc.Path); err != nil {
			s.bridge.Logf(bridge.LogError, "attach %s to %s: %v", sc.Path, sc.Handle, err)
		}
	}
	s.scene = sf.Name
	s.stats.Scene = sf.Name
	s.log.Info().Str("scene", sf.Name).Int("entities", len(out.Entities)).
		Int("scripts", s.scripts.Instances()).Msg("scene spawned")
	return nil
}

// Engine exposes the session's engine.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Bridge exposes the session's bridge.
func (s *Session) Bridge() *bridge.Bridge { return s.bridge }

// Scripts exposes the session's script runtime.
func (s *Session) Scripts() *script.Runtime { return s.scripts }

// Done reports whether the user asked to quit.
func (s *Session) Done() bool { return s.done }

// Log returns the session statistics so far.
func (s *Session) Log() SessionLog { return s.stats }

// Run polls input on a goroutine and ticks at the configured rate until the
// user quits, the screen goes away or ctx ends.
func (s *Session) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	interval := s.opts.Config.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.draw()

	for !s.done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.HandleEvent(ev); err != nil {
				return err
			}
		case <-ticker.C:
			s.Step(float32(interval.Seconds()))
		}
	}
	return nil
}

// HandleEvent applies one terminal event. Only a failed reload returns an
// error.
func (s *Session) HandleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		s.renderer.Resize()
		s.draw()
	case *tcell.EventKey:
		switch keyToCommand(ev) {
		case CommandQuit:
			s.done = true
			return nil
		case CommandReload:
			s.stats.Reloads++
			if err := s.load(); err != nil {
				return fmt.Errorf("reload: %w", err)
			}
			s.draw()
			return nil
		case CommandPause:
			s.paused = !s.paused
			s.draw()
			return nil
		}
		if k, ok := keyToBridge(ev); ok && s.keys.press(k) {
			s.eng.PressKey(k)
		}
	case *tcell.EventMouse:
		b := ev.Buttons()
		s.eng.SetMouseButton(bridge.MouseLeft, b&tcell.Button1 != 0)
		s.eng.SetMouseButton(bridge.MouseRight, b&tcell.Button2 != 0)
		s.eng.SetMouseButton(bridge.MouseMiddle, b&tcell.Button3 != 0)
	}
	return nil
}

// Step advances the scene by dt seconds: scripts, physics and contacts,
// removals, key expiry, then a frame. A paused session only redraws.
func (s *Session) Step(dt float32) {
	if s.paused {
		s.draw()
		return
	}
	s.scripts.Sync(s.eng.Handles())
	s.scripts.Update(float64(dt))
	if err := s.eng.Tick(dt); err != nil {
		s.log.Error().Err(err).Msg("tick")
	}
	s.eng.EndTick()
	for _, k := range s.keys.tick() {
		s.eng.ReleaseKey(k)
	}

	s.stats.Ticks++
	if n := len(s.eng.Handles()); n > s.stats.PeakEntities {
		s.stats.PeakEntities = n
	}
	s.draw()
}

func (s *Session) draw() {
	s.renderer.DrawFrame(s.eng.World())
	s.renderer.DrawHUD(render.Status{
		Scene:    s.scene,
		Tick:     s.eng.TickCount(),
		Entities: len(s.eng.Handles()),
		Scripts:  s.scripts.Instances(),
		Paused:   s.paused,
	}, s.eng.RecentLogs())
}

//go:build darwin || linux

// scriptbridge-host runs a scene's scripts against the native engine library
// instead of the built-in engine. It has no screen: the library renders, or
// nothing does. Build:
//
//	go build -o scriptbridge-host ./cmd/host
//
// Usage:
//
//	./scriptbridge-host [-lib libdc_engine.so] [-config sandbox.yaml] [-scene level.yaml] [-scripts dir] [-ticks 0]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"scriptbridge/internal/bridge"
	"scriptbridge/internal/config"
	"scriptbridge/internal/factory"
	"scriptbridge/internal/native"
	"scriptbridge/internal/script"

	"github.com/rs/zerolog"
)

func main() {
	libPath := flag.String("lib", native.FindLibrary(), "Engine shared library")
	cfgFile := flag.String("config", "", "YAML sandbox configuration")
	scene := flag.String("scene", "", "Scene file (default: the embedded arena)")
	scripts := flag.String("scripts", "", "Script directory (default: the embedded scripts)")
	ticks := flag.Int("ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	if *scene != "" {
		cfg.Scene = *scene
	}
	if *scripts != "" {
		cfg.ScriptDir = *scripts
	}
	log = log.Level(cfg.ZerologLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *libPath, cfg, *ticks, log); err != nil {
		log.Fatal().Err(err).Msg("host stopped")
	}
}

// tracker records the entities this process creates so scripts added at
// runtime can be found. The library has no entity enumeration.
type tracker struct {
	*native.Library
	live []bridge.Handle
}

func (t *tracker) CreateEntity(name string) (uint64, error) {
	id, err := t.Library.CreateEntity(name)
	if err == nil {
		t.live = append(t.live, bridge.Handle(id))
	}
	return id, err
}

func (t *tracker) drop(removed []uint64) {
	t.live = slices.DeleteFunc(t.live, func(h bridge.Handle) bool {
		return slices.Contains(removed, uint64(h))
	})
}

func run(ctx context.Context, libPath string, cfg config.Config, maxTicks int, log zerolog.Logger) error {
	lib, err := native.Open(libPath)
	if err != nil {
		return err
	}
	defer lib.Close()
	log.Info().Str("lib", lib.Path()).Msg("engine library loaded")

	tr := &tracker{Library: lib}
	b := bridge.New(tr)
	lib.Attach(b.Relay())
	b.Relay().OnFailure(func(f *bridge.SubscriberFailure) {
		log.Warn().Err(f).Msg("listener failed")
	})

	scenes, scenePath, scriptFS := cfg.Sources()
	sf, err := factory.LoadScene(scenes, scenePath)
	if err != nil {
		return err
	}
	rt := script.New(b, lib, scriptFS)
	defer rt.Close()

	out, err := factory.Spawn(b, sf)
	if err != nil {
		return fmt.Errorf("scene %s: %w", sf.Name, err)
	}
	for _, sc := range out.Scripted {
		if err := rt.Attach(sc.Handle, sc.Path); err != nil {
			b.Logf(bridge.LogError, "attach %s to %s: %v", sc.Path, sc.Handle, err)
		}
	}
	log.Info().Str("scene", sf.Name).Int("entities", len(out.Entities)).
		Int("scripts", rt.Instances()).Msg("scene spawned")

	interval := cfg.TickInterval()
	dt := float32(interval.Seconds())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; maxTicks == 0 || n < maxTicks; n++ {
		select {
		case <-ctx.Done():
			log.Info().Int("ticks", n).Msg("interrupted")
			return nil
		case <-ticker.C:
		}
		rt.Sync(tr.live)
		rt.Update(float64(dt))
		if err := lib.Tick(dt); err != nil {
			return err
		}
		removed, err := lib.EndTick()
		if err != nil {
			return err
		}
		for _, id := range removed {
			rt.Detach(bridge.Handle(id))
		}
		tr.drop(removed)
	}
	log.Info().Int("ticks", maxTicks).Int("entities", len(tr.live)).Msg("done")
	return nil
}

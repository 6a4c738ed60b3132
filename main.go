// scriptbridge is a terminal sandbox for Lua-scripted scenes. Build:
//
//	go build -o scriptbridge .
//
// Usage:
//
//	./scriptbridge [-config sandbox.yaml] [-scene level.yaml] [-scripts dir] [-log-file run.log] [-record]
//
// Keys: Esc quits, Ctrl-R reloads the scene and its scripts, Ctrl-P pauses.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"scriptbridge/internal/config"
	"scriptbridge/internal/game"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

func main() {
	cfgFile := flag.String("config", "", "YAML sandbox configuration")
	scene := flag.String("scene", "", "Scene file (default: the embedded arena)")
	scripts := flag.String("scripts", "", "Script directory (default: the embedded scripts)")
	tickRate := flag.Int("tick-rate", 0, "Ticks per second (overrides the config)")
	logLevel := flag.String("log-level", "", "Log level (overrides the config)")
	logFile := flag.String("log-file", "", "Write logs to this file (overrides the config)")
	record := flag.Bool("record", false, "Append a session summary to the session log")
	flag.Parse()

	if err := run(*cfgFile, overrides{
		scene:    *scene,
		scripts:  *scripts,
		tickRate: *tickRate,
		logLevel: *logLevel,
		logFile:  *logFile,
	}, *record); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// overrides are command-line settings layered over the config file.
type overrides struct {
	scene    string
	scripts  string
	tickRate int
	logLevel string
	logFile  string
}

func (o overrides) apply(cfg config.Config) (config.Config, error) {
	if o.scene != "" {
		cfg.Scene = o.scene
	}
	if o.scripts != "" {
		cfg.ScriptDir = o.scripts
	}
	if o.tickRate != 0 {
		cfg.TickRate = o.tickRate
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	return cfg, cfg.Validate()
}

func run(cfgFile string, o overrides, record bool) error {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
	}
	cfg, err := o.apply(cfg)
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := zerolog.New(out).Level(cfg.ZerologLevel()).With().Timestamp().Logger()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()

	scenes, scenePath, scriptFS := cfg.Sources()
	sess, err := game.NewSession(screen, game.Options{
		Config:    cfg,
		Scenes:    scenes,
		ScenePath: scenePath,
		Scripts:   scriptFS,
		Logger:    log,
	})
	if err != nil {
		screen.Fini()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := sess.Run(ctx)
	screen.Fini()
	if runErr == context.Canceled {
		runErr = nil
	}

	if record {
		if err := game.SaveSessionLog(sess.Log()); err != nil {
			log.Warn().Err(err).Msg("could not save session log")
		}
	}
	log.Info().Uint64("ticks", sess.Log().Ticks).Int("reloads", sess.Log().Reloads).Msg("session ended")
	return runErr
}

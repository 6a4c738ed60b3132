// Package config holds the sandbox settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"scriptbridge/assets"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is read from a YAML file; flags may override single fields after
// loading. Empty Scene and ScriptDir select the embedded assets.
type Config struct {
	TickRate  int       `yaml:"tick_rate"` // ticks per second
	Gravity   []float32 `yaml:"gravity"`
	ScriptDir string    `yaml:"script_dir"`
	Scene     string    `yaml:"scene"`
	LogLevel  string    `yaml:"log_level"`
	LogFile   string    `yaml:"log_file"`
	KeyHold   int       `yaml:"key_hold"` // ticks a key stays down without repeat
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		TickRate: 20,
		Gravity:  []float32{0, -9.81, 0},
		LogLevel: "info",
		KeyHold:  3,
	}
}

// Load reads path on top of Default, so a file only needs the keys it
// changes.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate %d out of range 1-240", c.TickRate)
	}
	if len(c.Gravity) != 3 {
		return fmt.Errorf("gravity needs 3 components, got %d", len(c.Gravity))
	}
	if c.KeyHold < 1 {
		return errors.New("key_hold must be at least 1")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// TickInterval is the wall-clock time between ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// GravityVec returns Gravity as a vector.
func (c Config) GravityVec() mgl32.Vec3 {
	if len(c.Gravity) != 3 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{c.Gravity[0], c.Gravity[1], c.Gravity[2]}
}

// ZerologLevel maps LogLevel, falling back to info.
func (c Config) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Sources resolves where scenes and scripts are read from: the configured
// paths, or the embedded assets for whichever is empty.
func (c Config) Sources() (scenes fs.FS, scenePath string, scripts fs.FS) {
	scenes, scenePath = assets.Scenes(), assets.DefaultScene
	if c.Scene != "" {
		scenes, scenePath = os.DirFS(filepath.Dir(c.Scene)), filepath.Base(c.Scene)
	}
	scripts = assets.Scripts()
	if c.ScriptDir != "" {
		scripts = os.DirFS(c.ScriptDir)
	}
	return scenes, scenePath, scripts
}

package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionLog records statistics gathered during one sandbox session.
type SessionLog struct {
	Scene            string    `json:"scene"`
	Started          time.Time `json:"started"`
	Ticks            uint64    `json:"ticks"`
	Reloads          int       `json:"reloads"`
	PeakEntities     int       `json:"peak_entities"`
	ListenerFailures int       `json:"listener_failures"`
}

// SaveSessionLog appends l as one JSON line to sessions.jsonl in the data
// directory.
func SaveSessionLog(l SessionLog) error {
	dir, err := sessionLogDir()
	if err != nil {
		return fmt.Errorf("session log: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session log: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "sessions.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("session log: %w", err)
	}
	if err := json.NewEncoder(f).Encode(l); err != nil {
		f.Close()
		return fmt.Errorf("session log: %w", err)
	}
	return f.Close()
}

// sessionLogDir is $XDG_DATA_HOME/scriptbridge, or
// ~/.local/share/scriptbridge when XDG_DATA_HOME is unset.
func sessionLogDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "scriptbridge"), nil
}

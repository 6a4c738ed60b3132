package main

import (
	"testing"

	"scriptbridge/internal/config"
)

func TestOverridesApply(t *testing.T) {
	tests := []struct {
		name    string
		o       overrides
		wantErr bool
	}{
		{"none", overrides{}, false},
		{"tick rate", overrides{tickRate: 60}, false},
		{"tick rate too high", overrides{tickRate: 1000}, true},
		{"log level", overrides{logLevel: "debug"}, false},
		{"bad log level", overrides{logLevel: "loud"}, true},
		{"paths", overrides{scene: "levels/a.yaml", scripts: "scripts", logFile: "run.log"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.o.apply(config.Default())
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.o.tickRate != 0 && !tt.wantErr && cfg.TickRate != tt.o.tickRate {
				t.Errorf("tick rate = %d", cfg.TickRate)
			}
			if tt.o.scene != "" && cfg.Scene != tt.o.scene {
				t.Errorf("scene = %q", cfg.Scene)
			}
		})
	}
}

//go:build darwin || linux

package native

import (
	"errors"
	"path/filepath"
	"testing"

	"scriptbridge/internal/bridge"
)

func TestOpenMissingLibrary(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), LibraryName()))
	if !errors.Is(err, bridge.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestFindLibraryHonoursEnv(t *testing.T) {
	t.Setenv("DC_ENGINE_LIB", "/opt/engine/libcustom.so")
	if got := FindLibrary(); got != "/opt/engine/libcustom.so" {
		t.Fatalf("FindLibrary = %q", got)
	}
}

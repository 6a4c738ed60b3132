package native

import (
	"errors"
	"testing"
	"unsafe"

	"scriptbridge/internal/bridge"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   error
	}{
		{StatusAbsent, bridge.ErrComponentAbsent},
		{StatusNoScene, bridge.ErrEngineUnavailable},
		{StatusUnknown, bridge.ErrUnknownField},
		{StatusReadOnly, bridge.ErrReadOnlyField},
		{Status(42), bridge.ErrEngineUnavailable},
	}
	for _, tt := range tests {
		if err := check("op", tt.status); !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
	if err := check("op", StatusOK); err != nil {
		t.Fatalf("StatusOK should be nil, got %v", err)
	}
}

func TestStringCopies(t *testing.T) {
	b := cString("meshes/wizard")
	if b[len(b)-1] != 0 {
		t.Fatal("cString must be NUL-terminated")
	}
	got := goString(uintptr(unsafe.Pointer(&b[0])))
	if got != "meshes/wizard" {
		t.Fatalf("goString = %q", got)
	}
	b[0] = 'X'
	if got != "meshes/wizard" {
		t.Fatal("goString must copy")
	}
	if goString(0) != "" {
		t.Fatal("nil pointer should read as empty")
	}
}

func TestGoStringIsBounded(t *testing.T) {
	long := make([]byte, maxStringLen+10)
	for i := range long {
		long[i] = 'a'
	}
	got := goString(uintptr(unsafe.Pointer(&long[0])))
	if len(got) != maxStringLen {
		t.Fatalf("expected %d bytes, got %d", maxStringLen, len(got))
	}
}

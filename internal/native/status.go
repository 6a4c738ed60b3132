// Package native binds the bridge's boundary calls to a shared engine
// library (libdc_engine) through purego, without cgo.
//
// Every exported dc_* function returns an int32 status and writes results
// through out pointers:
//
//	0  ok
//	1  entity or component absent
//	2  no active scene
//	3  unknown type token or field
//	4  read-only field
package native

import (
	"fmt"
	"unsafe"

	"scriptbridge/internal/bridge"
)

// Status is the result code of a library call.
type Status int32

const (
	StatusOK Status = iota
	StatusAbsent
	StatusNoScene
	StatusUnknown
	StatusReadOnly
)

// maxStringLen bounds C string copies from the library.
const maxStringLen = 1 << 16

// check maps a status to the bridge's error taxonomy.
func check(op string, s Status) error {
	switch s {
	case StatusOK:
		return nil
	case StatusAbsent:
		return fmt.Errorf("%s: %w", op, bridge.ErrComponentAbsent)
	case StatusNoScene:
		return fmt.Errorf("%s: no active scene: %w", op, bridge.ErrEngineUnavailable)
	case StatusUnknown:
		return fmt.Errorf("%s: %w", op, bridge.ErrUnknownField)
	case StatusReadOnly:
		return fmt.Errorf("%s: %w", op, bridge.ErrReadOnlyField)
	}
	return fmt.Errorf("%s: status %d: %w", op, int32(s), bridge.ErrEngineUnavailable)
}

// cString returns a NUL-terminated copy of s. The caller keeps the slice
// alive for the duration of the call.
func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// goString copies a NUL-terminated string owned by the library. Copies
// stop at maxStringLen bytes.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for n < maxStringLen && *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

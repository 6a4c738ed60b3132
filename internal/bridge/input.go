package bridge

import "strconv"

// Key is a keyboard key code. Values follow the engine's (GLFW) numbering.
type Key int32

const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	Key0       Key = 48
	Key9       Key = 57
	KeyA       Key = 65
	KeyZ       Key = 90
	KeyEscape  Key = 256
	KeyEnter   Key = 257
	KeyTab     Key = 258
	KeyRight   Key = 262
	KeyLeft    Key = 263
	KeyDown    Key = 264
	KeyUp      Key = 265
)

// MouseButton is a mouse button code.
type MouseButton int32

const (
	MouseLeft   MouseButton = 0
	MouseRight  MouseButton = 1
	MouseMiddle MouseButton = 2
)

// Input is the polling surface scripts read key and button state from.
type Input interface {
	IsKeyPressed(k Key) bool
	IsMouseButtonPressed(b MouseButton) bool
}

var namedKeys = map[string]Key{
	"Space":  KeySpace,
	"Escape": KeyEscape,
	"Enter":  KeyEnter,
	"Tab":    KeyTab,
	"Right":  KeyRight,
	"Left":   KeyLeft,
	"Down":   KeyDown,
	"Up":     KeyUp,
}

// KeyNames returns every named key: Space, Escape, Enter, Tab, the arrows,
// A..Z and D0..D9.
func KeyNames() map[string]Key {
	out := make(map[string]Key, len(namedKeys)+36)
	for n, k := range namedKeys {
		out[n] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		out[string(rune(k))] = k
	}
	for k := Key0; k <= Key9; k++ {
		out["D"+string(rune(k))] = k
	}
	return out
}

// KeyFromRune maps a printable rune to its key code, ignoring case.
func KeyFromRune(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Key(r - 'a' + 'A'), true
	case r >= 'A' && r <= 'Z':
		return Key(r), true
	case r >= '0' && r <= '9':
		return Key(r), true
	case r == ' ':
		return KeySpace, true
	}
	return KeyUnknown, false
}

func (k Key) String() string {
	for n, nk := range namedKeys {
		if nk == k {
			return n
		}
	}
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune(k))
	case k >= Key0 && k <= Key9:
		return "D" + string(rune(k))
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

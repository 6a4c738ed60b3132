package game

import (
	"slices"

	"scriptbridge/internal/bridge"

	"github.com/gdamore/tcell/v2"
)

// Command is a sandbox control that is not forwarded to scripts.
type Command uint8

const (
	CommandNone Command = iota
	CommandQuit
	CommandReload
	CommandPause
)

// keyToCommand maps the control keys. Letters, digits, space and arrows all
// belong to scripts.
func keyToCommand(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit
	case tcell.KeyCtrlR:
		return CommandReload
	case tcell.KeyCtrlP:
		return CommandPause
	}
	return CommandNone
}

// keyToBridge translates a tcell key event to an engine key code.
func keyToBridge(ev *tcell.EventKey) (bridge.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return bridge.KeyUp, true
	case tcell.KeyDown:
		return bridge.KeyDown, true
	case tcell.KeyRight:
		return bridge.KeyRight, true
	case tcell.KeyLeft:
		return bridge.KeyLeft, true
	case tcell.KeyEnter:
		return bridge.KeyEnter, true
	case tcell.KeyTab:
		return bridge.KeyTab, true
	case tcell.KeyRune:
		return bridge.KeyFromRune(ev.Rune())
	}
	return bridge.KeyUnknown, false
}

// keyLatch turns terminal key presses into held keys. A terminal reports no
// key-up, so a key counts as released after hold ticks without a repeat.
type keyLatch struct {
	hold int
	left map[bridge.Key]int
}

func newKeyLatch(hold int) *keyLatch {
	return &keyLatch{hold: hold, left: make(map[bridge.Key]int)}
}

// press reports whether k was up before, which is when the engine needs to
// hear about it. A repeat only refreshes the hold.
func (kl *keyLatch) press(k bridge.Key) bool {
	_, held := kl.left[k]
	kl.left[k] = kl.hold
	return !held
}

// tick counts down every held key and returns the ones that expired, in
// key order.
func (kl *keyLatch) tick() []bridge.Key {
	var out []bridge.Key
	for k, n := range kl.left {
		if n <= 1 {
			out = append(out, k)
			delete(kl.left, k)
			continue
		}
		kl.left[k] = n - 1
	}
	slices.Sort(out)
	return out
}

// clear forgets every held key and returns them.
func (kl *keyLatch) clear() []bridge.Key {
	out := make([]bridge.Key, 0, len(kl.left))
	for k := range kl.left {
		out = append(out, k)
	}
	clear(kl.left)
	slices.Sort(out)
	return out
}

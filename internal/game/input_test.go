package game

import (
	"testing"

	"scriptbridge/internal/bridge"

	"github.com/gdamore/tcell/v2"
)

// keyB is the B key; bridge only names the KeyA..KeyZ bounds of the letter range.
const keyB = bridge.KeyA + 1

func TestKeyToBridge(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want bridge.Key
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), bridge.KeyA, true},
		{tcell.NewEventKey(tcell.KeyRune, 'Z', tcell.ModShift), bridge.KeyZ, true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), bridge.KeySpace, true},
		{tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone), bridge.Key0 + 7, true},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), bridge.KeyUp, true},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), bridge.KeyLeft, true},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), bridge.KeyEnter, true},
		{tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone), bridge.KeyUnknown, false},
		{tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), bridge.KeyUnknown, false},
	}
	for _, tt := range tests {
		got, ok := keyToBridge(tt.ev)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyToBridge(%s) = %v, %v; want %v, %v", tt.ev.Name(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestKeyToCommand(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want Command
	}{
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), CommandQuit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), CommandQuit},
		{tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), CommandReload},
		{tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl), CommandPause},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), CommandNone},
	}
	for _, tt := range tests {
		if got := keyToCommand(tt.ev); got != tt.want {
			t.Errorf("keyToCommand(%s) = %v; want %v", tt.ev.Name(), got, tt.want)
		}
	}
}

func TestKeyLatch(t *testing.T) {
	kl := newKeyLatch(2)
	if !kl.press(bridge.KeyA) {
		t.Fatal("first press should be reported")
	}
	if kl.press(bridge.KeyA) {
		t.Fatal("a repeat must not be reported again")
	}
	kl.press(keyB)
	if got := kl.tick(); len(got) != 0 {
		t.Fatalf("nothing should expire after one tick, got %v", got)
	}
	kl.press(bridge.KeyA) // refresh
	if got := kl.tick(); len(got) != 1 || got[0] != keyB {
		t.Fatalf("expected B to expire, got %v", got)
	}
	if got := kl.clear(); len(got) != 1 || got[0] != bridge.KeyA {
		t.Fatalf("clear should return A, got %v", got)
	}
	if !kl.press(bridge.KeyA) {
		t.Fatal("press after clear should be reported")
	}
}

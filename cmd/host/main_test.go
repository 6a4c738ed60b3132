//go:build darwin || linux

package main

import (
	"slices"
	"testing"

	"scriptbridge/internal/bridge"
)

func TestTrackerDrop(t *testing.T) {
	tr := &tracker{live: []bridge.Handle{1, 2, 3, 4}}
	tr.drop([]uint64{2, 4, 9})
	if !slices.Equal(tr.live, []bridge.Handle{1, 3}) {
		t.Fatalf("live = %v", tr.live)
	}
	tr.drop(nil)
	if len(tr.live) != 2 {
		t.Fatalf("dropping nothing changed live to %v", tr.live)
	}
}

package render

import (
	"strings"
	"testing"

	"scriptbridge/assets"
	"scriptbridge/internal/bridge"
	"scriptbridge/internal/component"
	"scriptbridge/internal/ecs"
	"scriptbridge/internal/engine"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(w, h)
	return ss
}

func spawn(w *ecs.World, name, mesh string, pos mgl32.Vec3) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Name{Name: name})
	w.Add(id, component.NewTransform(pos))
	if mesh != "" {
		w.Add(id, component.Mesh{Path: mesh})
	}
	return id
}

func rowText(ss tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		c, _, _, _ := ss.GetContent(x, y)
		b.WriteRune(c)
	}
	return b.String()
}

func TestCameraMapping(t *testing.T) {
	c := NewCamera(40, 14)
	tests := []struct {
		x, z   float32
		sx, sy int
		ok     bool
	}{
		{0, 0, 20, 7, true},
		{2, -3, 24, 4, true},
		{2.4, -2.6, 24, 4, true},
		{-10, 0, 0, 7, true},
		{10, 0, 40, 7, false},
		{0, 7, 20, 14, false},
	}
	for _, tt := range tests {
		sx, sy, ok := c.WorldToScreen(tt.x, tt.z)
		if sx != tt.sx || sy != tt.sy || ok != tt.ok {
			t.Errorf("WorldToScreen(%v, %v) = (%d, %d, %v), want (%d, %d, %v)",
				tt.x, tt.z, sx, sy, ok, tt.sx, tt.sy, tt.ok)
		}
	}
	if x, z := c.ScreenToWorld(24, 4); x != 2 || z != -3 {
		t.Errorf("ScreenToWorld(24, 4) = (%d, %d)", x, z)
	}
}

func TestDrawFrameGlyphs(t *testing.T) {
	ss := newScreen(t, 40, 20)
	r := NewRenderer(ss)
	w := ecs.NewWorld()
	spawn(w, "Player", "meshes/wizard.dcmesh", mgl32.Vec3{2, 0, -3})
	spawn(w, "Marker", "", mgl32.Vec3{-2, 0, 0})

	r.DrawFrame(w)
	ss.Show()

	if c, _, _, _ := ss.GetContent(24, 4); string(c) != assets.GlyphPlayer {
		t.Errorf("expected the player glyph at (24,4), got %q", c)
	}
	if c, _, _, _ := ss.GetContent(16, 7); c != 'M' {
		t.Errorf("entities without a mesh use their initial, got %q", c)
	}
}

func TestFollowCentresCamera(t *testing.T) {
	ss := newScreen(t, 40, 20)
	r := NewRenderer(ss)
	r.Follow("Player")
	w := ecs.NewWorld()
	spawn(w, "Player", "meshes/wizard.dcmesh", mgl32.Vec3{5, 0, 5})

	r.DrawFrame(w)
	ss.Show()
	if c, _, _, _ := ss.GetContent(20, 7); string(c) != assets.GlyphPlayer {
		t.Errorf("followed entity should sit in the centre, got %q", c)
	}
}

func TestDrawHUD(t *testing.T) {
	ss := newScreen(t, 60, 20)
	r := NewRenderer(ss)
	r.DrawFrame(nil)
	r.DrawHUD(Status{Scene: "arena", Tick: 12, Entities: 3, Scripts: 2}, []engine.LogEntry{
		{Level: bridge.LogInfo, Text: "old"},
		{Level: bridge.LogInfo, Text: "one"},
		{Level: bridge.LogWarn, Text: "two"},
		{Level: bridge.LogError, Text: "three"},
		{Level: bridge.LogDebug, Text: "four"},
	})

	if got := rowText(ss, 14, 60); !strings.HasPrefix(got, "────") {
		t.Errorf("expected a rule on row 14, got %q", got)
	}
	status := rowText(ss, 15, 60)
	if !strings.Contains(status, "[arena]  tick 12  entities 3  scripts 2") {
		t.Errorf("status line = %q", status)
	}
	if got := rowText(ss, 16, 60); !strings.Contains(got, "one") {
		t.Errorf("oldest shown diagnostic should be %q, row is %q", "one", got)
	}
	if got := rowText(ss, 19, 60); !strings.Contains(got, "four") {
		t.Errorf("newest diagnostic should be last, row is %q", got)
	}
}

func TestDrawTextClipsWideRunes(t *testing.T) {
	ss := newScreen(t, 10, 8)
	r := NewRenderer(ss)
	r.drawText(0, 0, 5, "ab🧙cd", styleStatus)
	ss.Show()
	if c, _, _, _ := ss.GetContent(2, 0); string(c) != "🧙" {
		t.Errorf("wide rune at column 2, got %q", c)
	}
	if c, _, _, _ := ss.GetContent(4, 0); c != 'c' {
		t.Errorf("text after a wide rune starts two columns later, got %q", c)
	}
	if c, _, _, _ := ss.GetContent(5, 0); c == 'd' {
		t.Error("text should be clipped at the width")
	}
}

// Package render draws the live scene top-down on a tcell screen.
package render

import (
	"sort"

	"scriptbridge/assets"
	"scriptbridge/internal/component"
	"scriptbridge/internal/ecs"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the number of rows reserved at the bottom for the HUD.
const hudRows = 6

// Renderer draws the engine's world. It reads the store directly, the way
// an engine's own renderer would; scripts never reach it.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	follow string // name of the entity the camera tracks
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(w, max(h-hudRows, 1)),
	}
}

// Follow makes the camera track the first entity called name.
func (r *Renderer) Follow(name string) { r.follow = name }

// Camera exposes the camera for callers that pan it by hand.
func (r *Renderer) Camera() *Camera { return r.camera }

// Resize picks up a new screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.Resize(w, max(h-hudRows, 1))
}

type sprite struct {
	id      ecs.EntityID
	x, y, z float32
	glyph   string
	trigger bool
}

// DrawFrame clears the screen and draws the ground grid and every entity
// that has a transform. Higher entities are drawn last.
func (r *Renderer) DrawFrame(w *ecs.World) {
	r.screen.Clear()
	if w == nil {
		return
	}
	sprites := collect(w)
	for _, s := range sprites {
		if s.glyph != "" && r.follow != "" && nameOf(w, s.id) == r.follow {
			r.camera.Center(s.x, s.z)
			break
		}
	}
	r.drawGround()

	sort.SliceStable(sprites, func(i, j int) bool { return sprites[i].y < sprites[j].y })
	for _, s := range sprites {
		sx, sy, ok := r.camera.WorldToScreen(s.x, s.z)
		if !ok {
			continue
		}
		style := styleEntity
		if s.trigger {
			style = styleTrigger
		}
		r.putGlyph(sx, sy, s.glyph, style)
	}
}

func collect(w *ecs.World) []sprite {
	ids := w.Query(component.CTransform)
	out := make([]sprite, 0, len(ids))
	for _, id := range ids {
		tr := w.Get(id, component.CTransform).(component.Transform)
		s := sprite{id: id, x: tr.Position[0], y: tr.Position[1], z: tr.Position[2]}
		if c := w.Get(id, component.CMesh); c != nil {
			s.glyph, _ = assets.MeshGlyph(c.(component.Mesh).Path)
		} else {
			s.glyph = initial(nameOf(w, id))
		}
		if c := w.Get(id, component.CSphereCollider); c != nil {
			s.trigger = c.(component.SphereCollider).Trigger
		}
		out = append(out, s)
	}
	return out
}

func nameOf(w *ecs.World, id ecs.EntityID) string {
	if c := w.Get(id, component.CName); c != nil {
		return c.(component.Name).Name
	}
	return ""
}

// initial is the fallback glyph for entities without a mesh.
func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return "?"
}

// drawGround dots every other cell so motion is visible on an empty field.
func (r *Renderer) drawGround() {
	for sy := 0; sy < r.camera.Height; sy++ {
		for sx := 0; sx+1 < r.camera.Width; sx += 2 {
			x, z := r.camera.ScreenToWorld(sx, sy)
			if (x+z)%2 == 0 {
				r.screen.SetContent(sx, sy, '·', nil, styleGround)
			}
		}
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	r.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

package assets

// Glyphs stand in for meshes in the terminal sandbox.
const (
	GlyphPlayer     = "🧙"
	GlyphProjectile = "✨"
	GlyphEnemy      = "👾"
	GlyphSpawner    = "🌀"
	GlyphCrate      = "📦"
	GlyphRock       = "🪨"
	GlyphUnknown    = "❔"
)

// MeshGlyphs maps mesh asset paths to their glyph.
var MeshGlyphs = map[string]string{
	"meshes/wizard.dcmesh":     GlyphPlayer,
	"meshes/projectile.dcmesh": GlyphProjectile,
	"meshes/cube.dcmesh":       GlyphEnemy,
	"meshes/portal.dcmesh":     GlyphSpawner,
	"meshes/crate.dcmesh":      GlyphCrate,
	"meshes/rock.dcmesh":       GlyphRock,
}

// MeshGlyph returns the glyph for a mesh path. Unknown meshes get
// GlyphUnknown and ok is false.
func MeshGlyph(path string) (glyph string, ok bool) {
	g, ok := MeshGlyphs[path]
	if !ok {
		return GlyphUnknown, false
	}
	return g, true
}

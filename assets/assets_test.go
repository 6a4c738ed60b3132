package assets

import (
	"io/fs"
	"testing"

	"scriptbridge/internal/factory"
)

func TestDefaultSceneIsComplete(t *testing.T) {
	s, err := factory.LoadScene(Scenes(), DefaultScene)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	for _, e := range s.Entities {
		if e.Script != "" {
			if _, err := fs.Stat(Scripts(), e.Script); err != nil {
				t.Errorf("%s: script %s: %v", e.Name, e.Script, err)
			}
		}
		if e.Mesh != "" {
			if _, ok := MeshGlyph(e.Mesh); !ok {
				t.Errorf("%s: mesh %s has no glyph", e.Name, e.Mesh)
			}
		}
	}
}

func TestScriptsEmbedded(t *testing.T) {
	for _, name := range []string{"player.lua", "projectile.lua", "enemy.lua", "enemy_spawner.lua"} {
		if _, err := fs.ReadFile(Scripts(), name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if g, ok := MeshGlyph("meshes/none"); ok || g != GlyphUnknown {
		t.Errorf("unknown mesh should map to %s", GlyphUnknown)
	}
}

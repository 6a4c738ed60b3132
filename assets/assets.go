// Package assets embeds the default sandbox scene and its scripts.
package assets

import (
	"embed"
	"io/fs"
)

// DefaultScene is the scene path inside Scenes.
const DefaultScene = "arena.yaml"

//go:embed scenes/*.yaml scripts/*.lua
var content embed.FS

// Scenes returns the embedded scene files.
func Scenes() fs.FS { return sub("scenes") }

// Scripts returns the embedded Lua behaviours.
func Scripts() fs.FS { return sub("scripts") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		panic(err) // dir is a compile-time constant
	}
	return f
}

package component

import "scriptbridge/internal/ecs"

const (
	CName      ecs.ComponentType = 1
	CTransform ecs.ComponentType = 2
	CMesh      ecs.ComponentType = 3
	CScript    ecs.ComponentType = 4
)

// Name is the display name every entity is created with.
type Name struct {
	Name string
}

func (Name) Type() ecs.ComponentType { return CName }

// Mesh is the asset path an entity is drawn with.
type Mesh struct {
	Path string
}

func (Mesh) Type() ecs.ComponentType { return CMesh }

// Script is the behaviour source attached to an entity.
type Script struct {
	Path string
}

func (Script) Type() ecs.ComponentType { return CScript }

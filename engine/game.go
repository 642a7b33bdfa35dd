package engine

import (
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/spaghettifunk/rtx/engine/scene"
)

// Game supplies the configuration and builds the scene for every run.
type Game struct {
	ApplicationConfig *ApplicationConfig
	FnBuildScene      BuildScene
	FnOnPacked        OnPacked
}

type BuildScene func(cfg *ApplicationConfig) (*scene.Scene, error)
type OnPacked func(ps *metadata.PackedScene) error

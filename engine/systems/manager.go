package systems

import (
	"context"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/spaghettifunk/rtx/engine/scene"
)

type SystemManager struct {
	geometrySystem *GeometrySystem
}

func NewSystemManager(geometryConfig *metadata.GeometrySystemConfig) (*SystemManager, error) {
	gs, err := NewGeometrySystem(geometryConfig)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		geometrySystem: gs,
	}, nil
}

// PackScene flattens the scene's groups into world space objects and packs
// them.
func (sm *SystemManager) PackScene(ctx context.Context, s *scene.Scene) (*metadata.PackedScene, error) {
	objects := s.Flatten()
	core.LogDebug("flattened scene into %d objects", len(objects))
	return sm.geometrySystem.Pack(ctx, objects)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	return nil
}

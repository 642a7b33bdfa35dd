package testbed

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine"
	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/geometry"
	"github.com/spaghettifunk/rtx/engine/math"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/spaghettifunk/rtx/engine/scene"
	"golang.org/x/exp/rand"
)

const (
	lightSize     = 50
	lightDistance = 10
)

// lattice offsets a block can step to
var steps = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// NewTestGame returns a game packing the block scene described by the
// testbed section of cfg. Every build reseeds, so a rebuild with the same
// settings yields the same scene.
func NewTestGame(cfg *engine.ApplicationConfig) *engine.Game {
	return &engine.Game{
		ApplicationConfig: cfg,
		FnBuildScene: func(cfg *engine.ApplicationConfig) (*scene.Scene, error) {
			return BuildBlockScene(cfg.Testbed.Blocks, rand.New(rand.NewSource(cfg.Testbed.Seed)))
		},
		FnOnPacked: func(ps *metadata.PackedScene) error {
			blocks := cfg.Testbed.Blocks
			core.LogDebug("testbed scene: %d blocks, %d lights", blocks, len(ps.Objects)-blocks)
			return nil
		},
	}
}

// BlockPositions walks n blocks over the integer lattice, each one next to
// the previous block and never on an occupied cell. The walk restarts from a
// random placed block when it boxes itself in.
func BlockPositions(n int, rng *rand.Rand) ([][3]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%d blocks: %w", n, core.ErrInvalidParameter)
	}
	positions := make([][3]int, 0, n)
	occupied := make(map[[3]int]bool, n)

	current := [3]int{0, 0, 0}
	positions = append(positions, current)
	occupied[current] = true

	free := make([][3]int, 0, len(steps))
	for len(positions) < n {
		free = free[:0]
		for _, s := range steps {
			next := [3]int{current[0] + s[0], current[1] + s[1], current[2] + s[2]}
			if !occupied[next] {
				free = append(free, next)
			}
		}
		if len(free) == 0 {
			current = positions[rng.Intn(len(positions))]
			continue
		}
		current = free[rng.Intn(len(free))]
		positions = append(positions, current)
		occupied[current] = true
	}
	return positions, nil
}

/**
 * @brief Builds n unit boxes laid out by BlockPositions, recentred on their
 * centre of gravity, and a group of two large panels on either side of them
 * rotated as one.
 */
func BuildBlockScene(n int, rng *rand.Rand) (*scene.Scene, error) {
	positions, err := BlockPositions(n, rng)
	if err != nil {
		return nil, err
	}

	var centre math.Vec3
	for _, p := range positions {
		centre = centre.Add(math.NewVec3(float32(p[0]), float32(p[1]), float32(p[2])))
	}
	centre = centre.MulScalar(1.0 / float32(n))

	s := scene.New()
	for i, p := range positions {
		box, err := geometry.NewBoxGeometry(1, 1, 1)
		if err != nil {
			return nil, err
		}
		position := math.NewVec3(float32(p[0]), float32(p[1]), float32(p[2])).Sub(centre)
		box.SetTransformationMatrix(math.TransformFromPosition(position).GetLocal())
		s.Add(scene.NewObject(fmt.Sprintf("block-%d", i), box))
	}

	lights := scene.NewGroup("lights")
	for _, side := range []float32{-1, 1} {
		panel, err := geometry.NewPlainGeometry(lightSize, lightSize)
		if err != nil {
			return nil, err
		}
		t := math.TransformCreate()
		t.SetPosition(math.NewVec3(side*lightDistance, 0, 0))
		t.SetRotation(math.NewQuatFromEuler(0, math.DegToRad(-side*90), 0))
		panel.SetTransformationMatrix(t.GetLocal())
		name := "light-left"
		if side > 0 {
			name = "light-right"
		}
		lights.Add(scene.NewObject(name, panel))
	}
	lights.SetTransformationMatrix(math.NewQuatFromEuler(math.DegToRad(-60), math.DegToRad(45), 0).ToMat4())
	s.AddGroup(lights)
	return s, nil
}

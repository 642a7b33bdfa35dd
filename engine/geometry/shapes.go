package geometry

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
)

// NewBoxGeometry returns an axis aligned box centred on the origin as a
// 12 triangle mesh with outward facing, counter-clockwise winding.
func NewBoxGeometry(width, height, depth float32) (*StandardGeometry, error) {
	if !validPositive(width) || !validPositive(height) || !validPositive(depth) {
		return nil, fmt.Errorf("box %vx%vx%v: %w", width, height, depth, core.ErrInvalidParameter)
	}
	x, y, z := width/2.0, height/2.0, depth/2.0

	vertices := []math.Vec3{
		{X: -x, Y: -y, Z: -z},
		{X: x, Y: -y, Z: -z},
		{X: x, Y: y, Z: -z},
		{X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z},
		{X: x, Y: -y, Z: z},
		{X: x, Y: y, Z: z},
		{X: -x, Y: y, Z: z},
	}
	faces := []Triangle{
		// +z
		{4, 5, 6}, {4, 6, 7},
		// -z
		{1, 0, 3}, {1, 3, 2},
		// +x
		{5, 1, 2}, {5, 2, 6},
		// -x
		{0, 4, 7}, {0, 7, 3},
		// +y
		{7, 6, 2}, {7, 2, 3},
		// -y
		{0, 1, 5}, {0, 5, 4},
	}
	return NewStandardGeometry(vertices, faces)
}

// NewPlainGeometry returns a rectangle in the XY plane facing +Z, made of
// two triangles.
func NewPlainGeometry(width, height float32) (*StandardGeometry, error) {
	if !validPositive(width) || !validPositive(height) {
		return nil, fmt.Errorf("plain %vx%v: %w", width, height, core.ErrInvalidParameter)
	}
	x, y := width/2.0, height/2.0

	vertices := []math.Vec3{
		{X: -x, Y: -y, Z: 0},
		{X: x, Y: -y, Z: 0},
		{X: x, Y: y, Z: 0},
		{X: -x, Y: y, Z: 0},
	}
	faces := []Triangle{
		{0, 1, 2}, {0, 2, 3},
	}
	return NewStandardGeometry(vertices, faces)
}

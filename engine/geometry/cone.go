package geometry

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
)

// ConeGeometry has its base disc of the given radius at y = 0 and its apex
// at y = height.
type ConeGeometry struct {
	transformable
	radius float32
	height float32
}

func NewConeGeometry(radius, height float32) (*ConeGeometry, error) {
	if !validPositive(radius) || !validPositive(height) {
		return nil, fmt.Errorf("cone radius=%v height=%v: %w", radius, height, core.ErrInvalidParameter)
	}
	return &ConeGeometry{
		transformable: newTransformable(),
		radius:        radius,
		height:        height,
	}, nil
}

func (c *ConeGeometry) Radius() float32 { return c.radius }
func (c *ConeGeometry) Height() float32 { return c.height }

func (c *ConeGeometry) Type() PrimitiveKind {
	return PrimitiveKindCone
}

func (c *ConeGeometry) NumVertices() int {
	return analyticNumVertices
}

func (c *ConeGeometry) NumFaces() int {
	return analyticNumFaces
}

func (c *ConeGeometry) SerializeVertices(buf []VertexRecord, offset int) error {
	param := VertexRecord{c.radius, c.height, -1.0, -1.0}
	return serializeAnalyticVertices(c.Type(), param, c.transformationMatrix, buf, offset)
}

func (c *ConeGeometry) SerializeFaces(buf []FaceRecord, offset int) error {
	return serializeAnalyticFaces(c.Type(), buf, offset)
}

func (c *ConeGeometry) Transform(m math.Mat4) Geometry {
	cone := *c
	cone.SetTransformationMatrix(m)
	return &cone
}

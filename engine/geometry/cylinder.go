package geometry

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
)

// CylinderGeometry is a finite cylinder around the local Y axis, centred on
// the origin, with caps at yMin and yMax.
type CylinderGeometry struct {
	transformable
	radius float32
	height float32
	yMin   float32
	yMax   float32
}

func NewCylinderGeometry(radius, height float32) (*CylinderGeometry, error) {
	if !validPositive(radius) || !validPositive(height) {
		return nil, fmt.Errorf("cylinder radius=%v height=%v: %w", radius, height, core.ErrInvalidParameter)
	}
	return &CylinderGeometry{
		transformable: newTransformable(),
		radius:        radius,
		height:        height,
		yMax:          height / 2.0,
		yMin:          -height / 2.0,
	}, nil
}

func (c *CylinderGeometry) Radius() float32 { return c.radius }
func (c *CylinderGeometry) Height() float32 { return c.height }
func (c *CylinderGeometry) YMin() float32   { return c.yMin }
func (c *CylinderGeometry) YMax() float32   { return c.yMax }

func (c *CylinderGeometry) Type() PrimitiveKind {
	return PrimitiveKindCylinder
}

// parameters + transformation matrix + inverse of transformation matrix
func (c *CylinderGeometry) NumVertices() int {
	return analyticNumVertices
}

func (c *CylinderGeometry) NumFaces() int {
	return analyticNumFaces
}

// SerializeVertices writes {radius, yMax, yMin, -1} followed by the forward
// and inverse matrix rows. The inverse is computed on every call.
func (c *CylinderGeometry) SerializeVertices(buf []VertexRecord, offset int) error {
	param := VertexRecord{c.radius, c.yMax, c.yMin, -1.0}
	return serializeAnalyticVertices(c.Type(), param, c.transformationMatrix, buf, offset)
}

func (c *CylinderGeometry) SerializeFaces(buf []FaceRecord, offset int) error {
	return serializeAnalyticFaces(c.Type(), buf, offset)
}

func (c *CylinderGeometry) Transform(m math.Mat4) Geometry {
	cylinder := *c
	cylinder.SetTransformationMatrix(m)
	return &cylinder
}

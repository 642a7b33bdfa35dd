package geometry

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
)

// SphereGeometry is a sphere centred on the local origin. Position and
// non-uniform scale come from the transformation matrix.
type SphereGeometry struct {
	transformable
	radius float32
}

func NewSphereGeometry(radius float32) (*SphereGeometry, error) {
	if !validPositive(radius) {
		return nil, fmt.Errorf("sphere radius=%v: %w", radius, core.ErrInvalidParameter)
	}
	return &SphereGeometry{
		transformable: newTransformable(),
		radius:        radius,
	}, nil
}

func (s *SphereGeometry) Radius() float32 { return s.radius }

func (s *SphereGeometry) Type() PrimitiveKind {
	return PrimitiveKindSphere
}

func (s *SphereGeometry) NumVertices() int {
	return analyticNumVertices
}

func (s *SphereGeometry) NumFaces() int {
	return analyticNumFaces
}

func (s *SphereGeometry) SerializeVertices(buf []VertexRecord, offset int) error {
	param := VertexRecord{s.radius, -1.0, -1.0, -1.0}
	return serializeAnalyticVertices(s.Type(), param, s.transformationMatrix, buf, offset)
}

func (s *SphereGeometry) SerializeFaces(buf []FaceRecord, offset int) error {
	return serializeAnalyticFaces(s.Type(), buf, offset)
}

func (s *SphereGeometry) Transform(m math.Mat4) Geometry {
	sphere := *s
	sphere.SetTransformationMatrix(m)
	return &sphere
}

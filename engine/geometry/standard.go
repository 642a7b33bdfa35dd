package geometry

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
)

// Triangle holds three vertex indices local to the mesh.
type Triangle struct {
	A, B, C int32
}

/**
 * @brief StandardGeometry is a triangle mesh. Unlike the analytic
 * primitives its vertices are written in world space: the transformation
 * matrix is applied at serialization time and not written itself.
 */
type StandardGeometry struct {
	transformable
	vertices []math.Vec3
	faces    []Triangle
}

func NewStandardGeometry(vertices []math.Vec3, faces []Triangle) (*StandardGeometry, error) {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil, fmt.Errorf("standard geometry with %d vertices and %d faces: %w", len(vertices), len(faces), core.ErrInvalidParameter)
	}
	for i, v := range vertices {
		if !math.IsFinite(v.X) || !math.IsFinite(v.Y) || !math.IsFinite(v.Z) {
			return nil, fmt.Errorf("standard geometry vertex %d = %v: %w", i, v, core.ErrInvalidParameter)
		}
	}
	n := int32(len(vertices))
	for i, f := range faces {
		for _, idx := range [3]int32{f.A, f.B, f.C} {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("standard geometry face %d = %v with %d vertices: %w", i, f, n, core.ErrInvalidFace)
			}
		}
	}

	g := &StandardGeometry{transformable: newTransformable()}
	if err := g.copyMesh(vertices, faces); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *StandardGeometry) copyMesh(vertices []math.Vec3, faces []Triangle) error {
	opt := copier.Option{DeepCopy: true}
	if err := copier.CopyWithOption(&g.vertices, &vertices, opt); err != nil {
		return fmt.Errorf("copy mesh vertices: %w", err)
	}
	if err := copier.CopyWithOption(&g.faces, &faces, opt); err != nil {
		return fmt.Errorf("copy mesh faces: %w", err)
	}
	return nil
}

// Vertices returns a copy of the local space positions.
func (g *StandardGeometry) Vertices() []math.Vec3 {
	return append([]math.Vec3(nil), g.vertices...)
}

// Faces returns a copy of the triangles.
func (g *StandardGeometry) Faces() []Triangle {
	return append([]Triangle(nil), g.faces...)
}

func (g *StandardGeometry) Type() PrimitiveKind {
	return PrimitiveKindStandard
}

func (g *StandardGeometry) NumVertices() int {
	return len(g.vertices)
}

func (g *StandardGeometry) NumFaces() int {
	return len(g.faces)
}

func (g *StandardGeometry) SerializeVertices(buf []VertexRecord, offset int) error {
	n := g.NumVertices()
	if err := checkRange(len(buf), offset, n); err != nil {
		return fmt.Errorf("%s: serialize vertices at %d: %w", g.Type(), offset, err)
	}
	m := g.transformationMatrix
	if _, err := validateTransform(m); err != nil {
		return fmt.Errorf("%s: serialize vertices at %d: %w", g.Type(), offset, err)
	}

	records := make([]VertexRecord, 0, n)
	for _, v := range g.vertices {
		records = append(records, vertexFromVec4(v.Transform(m).ToVec4(1.0)))
	}
	if err := commitVertices(buf, offset, n, records); err != nil {
		return fmt.Errorf("%s: serialize vertices at %d: %w", g.Type(), offset, err)
	}
	return nil
}

func (g *StandardGeometry) SerializeFaces(buf []FaceRecord, offset int) error {
	n := g.NumFaces()
	records := make([]FaceRecord, 0, n)
	for _, f := range g.faces {
		records = append(records, FaceRecord{f.A, f.B, f.C, UnusedIndex})
	}
	if err := commitFaces(buf, offset, n, records); err != nil {
		return fmt.Errorf("%s: serialize faces at %d: %w", g.Type(), offset, err)
	}
	return nil
}

func (g *StandardGeometry) Transform(m math.Mat4) Geometry {
	mesh := &StandardGeometry{transformable: transformable{transformationMatrix: m}}
	if err := mesh.copyMesh(g.vertices, g.faces); err != nil {
		core.LogWarn("standard geometry: deep copy failed, sharing mesh data: %s", err)
		mesh.vertices = g.Vertices()
		mesh.faces = g.Faces()
	}
	return mesh
}

// Bounds returns the local space extents of the mesh.
func (g *StandardGeometry) Bounds() math.Extents3D {
	e := math.Extents3D{Min: g.vertices[0], Max: g.vertices[0]}
	for _, v := range g.vertices[1:] {
		e.Min = math.Vec3{X: min(e.Min.X, v.X), Y: min(e.Min.Y, v.Y), Z: min(e.Min.Z, v.Z)}
		e.Max = math.Vec3{X: max(e.Max.X, v.X), Y: max(e.Max.Y, v.Y), Z: max(e.Max.Z, v.Z)}
	}
	return e
}

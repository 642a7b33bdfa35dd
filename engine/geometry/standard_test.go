package geometry

import (
	"testing"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardGeometryValidation(t *testing.T) {
	vertices := []math.Vec3{{X: 0}, {X: 1}, {Y: 1}}

	_, err := NewStandardGeometry(vertices, []Triangle{{0, 1, 3}})
	assert.ErrorIs(t, err, core.ErrInvalidFace)

	_, err = NewStandardGeometry(vertices, []Triangle{{-1, 1, 2}})
	assert.ErrorIs(t, err, core.ErrInvalidFace)

	_, err = NewStandardGeometry(nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	g, err := NewStandardGeometry(vertices, []Triangle{{0, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 1, g.NumFaces())
	assert.Equal(t, PrimitiveKindStandard, g.Type())
}

func TestStandardGeometryOwnsData(t *testing.T) {
	vertices := []math.Vec3{{X: 0}, {X: 1}, {Y: 1}}
	faces := []Triangle{{0, 1, 2}}
	g, err := NewStandardGeometry(vertices, faces)
	require.NoError(t, err)

	vertices[0].X = 100
	faces[0].A = 2
	assert.Equal(t, float32(0), g.Vertices()[0].X)
	assert.Equal(t, int32(0), g.Faces()[0].A)

	moved := g.Transform(math.NewMat4Translation(math.Vec3{Z: 1})).(*StandardGeometry)
	assert.Equal(t, g.Vertices(), moved.Vertices())
	assert.Equal(t, g.Faces(), moved.Faces())
	assert.Equal(t, math.NewMat4Identity(), g.TransformationMatrix())
}

func TestStandardGeometryWorldSpace(t *testing.T) {
	plain, err := NewPlainGeometry(2, 2)
	require.NoError(t, err)
	plain.SetTransformationMatrix(math.NewMat4Translation(math.Vec3{X: 10, Y: 0, Z: -1}))

	vertices := make([]VertexRecord, plain.NumVertices())
	require.NoError(t, plain.SerializeVertices(vertices, 0))
	assert.Equal(t, []VertexRecord{
		{9, -1, -1, 1},
		{11, -1, -1, 1},
		{11, 1, -1, 1},
		{9, 1, -1, 1},
	}, vertices)

	faces := make([]FaceRecord, plain.NumFaces())
	require.NoError(t, plain.SerializeFaces(faces, 0))
	assert.Equal(t, []FaceRecord{{0, 1, 2, -1}, {0, 2, 3, -1}}, faces)
}

func TestStandardGeometrySingular(t *testing.T) {
	box, err := NewBoxGeometry(1, 1, 1)
	require.NoError(t, err)
	box.SetTransformationMatrix(math.NewMat4Scale(math.Vec3{X: 1, Y: 1, Z: 0}))

	buf := make([]VertexRecord, box.NumVertices())
	assert.ErrorIs(t, box.SerializeVertices(buf, 0), core.ErrSingularTransform)
	assert.Equal(t, make([]VertexRecord, box.NumVertices()), buf)
}

func TestBoxWindingFacesOutward(t *testing.T) {
	box, err := NewBoxGeometry(2, 4, 6)
	require.NoError(t, err)
	assert.Equal(t, 8, box.NumVertices())
	assert.Equal(t, 12, box.NumFaces())

	bounds := box.Bounds()
	assert.Equal(t, math.Vec3{X: -1, Y: -2, Z: -3}, bounds.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, bounds.Max)

	v := box.Vertices()
	for i, f := range box.Faces() {
		a, b, c := v[f.A], v[f.B], v[f.C]
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).MulScalar(1.0 / 3.0)
		assert.Greater(t, normal.Dot(centroid), float32(0), "face %d points inward", i)
	}
}

func TestPlainFacesPositiveZ(t *testing.T) {
	plain, err := NewPlainGeometry(3, 1)
	require.NoError(t, err)
	v := plain.Vertices()
	for _, f := range plain.Faces() {
		normal := v[f.B].Sub(v[f.A]).Cross(v[f.C].Sub(v[f.A]))
		assert.Greater(t, normal.Z, float32(0))
	}

	_, err = NewPlainGeometry(0, 1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

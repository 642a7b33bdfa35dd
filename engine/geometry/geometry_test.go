package geometry

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func allPrimitives(t *testing.T) map[string]Geometry {
	t.Helper()
	cylinder, err := NewCylinderGeometry(1, 2)
	require.NoError(t, err)
	sphere, err := NewSphereGeometry(0.5)
	require.NoError(t, err)
	cone, err := NewConeGeometry(1, 3)
	require.NoError(t, err)
	box, err := NewBoxGeometry(1, 2, 3)
	require.NoError(t, err)
	plain, err := NewPlainGeometry(4, 4)
	require.NoError(t, err)
	return map[string]Geometry{
		"cylinder": cylinder,
		"sphere":   sphere,
		"cone":     cone,
		"box":      box,
		"plain":    plain,
	}
}

// Every primitive writes exactly what it declares and nothing else.
func TestContract(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for name, g := range allPrimitives(t) {
		t.Run(name, func(t *testing.T) {
			g.SetTransformationMatrix(randomTransform(rng))

			const pad = 3
			sentinelV := VertexRecord{-7, -7, -7, -7}
			sentinelF := FaceRecord{-7, -7, -7, -7}
			vertices := make([]VertexRecord, g.NumVertices()+2*pad)
			for i := range vertices {
				vertices[i] = sentinelV
			}
			faces := make([]FaceRecord, g.NumFaces()+2*pad)
			for i := range faces {
				faces[i] = sentinelF
			}

			require.NoError(t, g.SerializeVertices(vertices, pad))
			require.NoError(t, g.SerializeFaces(faces, pad))

			for i := range vertices {
				inside := i >= pad && i < pad+g.NumVertices()
				assert.Equal(t, !inside, vertices[i] == sentinelV, "vertex slot %d", i)
			}
			for i := range faces {
				inside := i >= pad && i < pad+g.NumFaces()
				assert.Equal(t, !inside, faces[i] == sentinelF, "face slot %d", i)
			}

			// local indices only
			for _, f := range faces[pad : pad+g.NumFaces()] {
				for _, idx := range f {
					assert.GreaterOrEqual(t, idx, int32(-1))
					assert.Less(t, idx, int32(g.NumVertices()))
				}
				assert.NotEmpty(t, f.Used())
			}
		})
	}
}

func TestLayoutTable(t *testing.T) {
	for _, g := range allPrimitives(t) {
		layout, ok := Layouts[g.Type()]
		require.True(t, ok, "%s has no layout", g.Type())
		assert.True(t, g.Type().Valid())
		if layout.NumVertices >= 0 {
			assert.Equal(t, layout.NumVertices, g.NumVertices())
			assert.Len(t, layout.Vertices, layout.NumVertices)
		}
		if layout.NumFaces >= 0 {
			assert.Equal(t, layout.NumFaces, g.NumFaces())
			assert.Len(t, layout.Faces, layout.NumFaces)
		}
	}
}

func TestPrimitiveKindValues(t *testing.T) {
	// serialized scenes depend on these
	assert.Equal(t, PrimitiveKind(1), PrimitiveKindStandard)
	assert.Equal(t, PrimitiveKind(2), PrimitiveKindSphere)
	assert.Equal(t, PrimitiveKind(3), PrimitiveKindCylinder)
	assert.Equal(t, PrimitiveKind(4), PrimitiveKindCone)
	assert.False(t, PrimitiveKind(0).Valid())
	assert.Equal(t, "PrimitiveKind(9)", PrimitiveKind(9).String())
}

func TestParsePrimitiveKind(t *testing.T) {
	for _, k := range []PrimitiveKind{PrimitiveKindStandard, PrimitiveKindSphere, PrimitiveKindCylinder, PrimitiveKindCone} {
		parsed, err := ParsePrimitiveKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	k, err := ParsePrimitiveKind(" Mesh ")
	require.NoError(t, err)
	assert.Equal(t, PrimitiveKindStandard, k)

	_, err = ParsePrimitiveKind("torus")
	assert.True(t, errors.Is(err, core.ErrUnknownPrimitive))
}

func TestCommitCountMismatch(t *testing.T) {
	buf := make([]VertexRecord, 8)
	err := commitVertices(buf, 0, 7, make([]VertexRecord, 6))
	assert.True(t, errors.Is(err, core.ErrCountMismatch))
	assert.Equal(t, make([]VertexRecord, 8), buf)

	faces := make([]FaceRecord, 4)
	err = commitFaces(faces, 0, 2, []FaceRecord{{1, 2, 3, 4}, {1, 2, 3, 4}, {1, 2, 3, 4}})
	assert.True(t, errors.Is(err, core.ErrCountMismatch))
	assert.Equal(t, make([]FaceRecord, 4), faces)
}

func TestCheckRange(t *testing.T) {
	assert.NoError(t, checkRange(7, 0, 7))
	assert.NoError(t, checkRange(10, 3, 7))
	assert.NoError(t, checkRange(0, 0, 0))
	assert.ErrorIs(t, checkRange(10, 4, 7), core.ErrOffsetOverflow)
	assert.ErrorIs(t, checkRange(10, -1, 1), core.ErrOffsetOverflow)
	assert.ErrorIs(t, checkRange(10, 1<<62, 1<<62), core.ErrOffsetOverflow)
}

func TestFaceRecordShift(t *testing.T) {
	assert.Equal(t, FaceRecord{10, -1, -1, -1}, FaceRecord{0, -1, -1, -1}.Shift(10))
	assert.Equal(t, FaceRecord{11, 12, 13, -1}, FaceRecord{1, 2, 3, -1}.Shift(10))
	assert.Equal(t, []int32{4, 5, 6}, FaceRecord{4, 5, 6, -1}.Used())
}

func TestSphereAndConeParameters(t *testing.T) {
	sphere, err := NewSphereGeometry(1.5)
	require.NoError(t, err)
	cone, err := NewConeGeometry(0.5, 2)
	require.NoError(t, err)

	buf := make([]VertexRecord, 7)
	require.NoError(t, sphere.SerializeVertices(buf, 0))
	assert.Equal(t, VertexRecord{1.5, -1, -1, -1}, buf[0])

	require.NoError(t, cone.SerializeVertices(buf, 0))
	assert.Equal(t, VertexRecord{0.5, 2, -1, -1}, buf[0])

	_, err = NewSphereGeometry(-1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = NewConeGeometry(1, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestTransformLeavesOriginal(t *testing.T) {
	m := math.NewMat4Translation(math.Vec3{X: 5, Y: 0, Z: 0})
	for name, g := range allPrimitives(t) {
		t.Run(name, func(t *testing.T) {
			before := g.TransformationMatrix()
			moved := g.Transform(m)
			assert.Equal(t, g.Type(), moved.Type())
			assert.Equal(t, g.NumVertices(), moved.NumVertices())
			assert.Equal(t, g.NumFaces(), moved.NumFaces())
			assert.Equal(t, m, moved.TransformationMatrix())
			assert.Equal(t, before, g.TransformationMatrix())
		})
	}
}

package systems

import (
	"context"
	"fmt"
	"testing"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/geometry"
	"github.com/spaghettifunk/rtx/engine/math"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/spaghettifunk/rtx/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortGeometry declares more records than it writes.
type shortGeometry struct {
	*geometry.SphereGeometry
}

func (s shortGeometry) NumVertices() int { return 8 }

// longGeometry declares fewer records than it writes.
type longGeometry struct {
	*geometry.SphereGeometry
}

func (l longGeometry) NumFaces() int { return 2 }

// negativeVertices reports a vertex count no buffer can hold.
type negativeVertices struct {
	*geometry.SphereGeometry
}

func (n negativeVertices) NumVertices() int { return -1 }

// negativeFaces reports a face count no buffer can hold.
type negativeFaces struct {
	*geometry.SphereGeometry
}

func (n negativeFaces) NumFaces() int { return -3 }

// wildGeometry writes past its window without checking.
type wildGeometry struct {
	*geometry.SphereGeometry
}

func (w wildGeometry) SerializeVertices(buf []geometry.VertexRecord, offset int) error {
	for i := 0; i < 10; i++ {
		buf[offset+i] = geometry.VertexRecord{}
	}
	return nil
}

func newSystem(t *testing.T, workers int, policy metadata.ErrorPolicy) *GeometrySystem {
	t.Helper()
	gs, err := NewGeometrySystem(&metadata.GeometrySystemConfig{
		Workers:   workers,
		QueueSize: 4,
		OnError:   policy,
	})
	require.NoError(t, err)
	t.Cleanup(func() { gs.Shutdown() })
	return gs
}

func mixedObjects(t *testing.T, n int) []*scene.Object {
	t.Helper()
	objects := make([]*scene.Object, 0, n)
	for i := 0; i < n; i++ {
		var g geometry.Geometry
		var err error
		switch i % 4 {
		case 0:
			g, err = geometry.NewCylinderGeometry(1, float32(i+1))
		case 1:
			g, err = geometry.NewBoxGeometry(1, 1, 1)
		case 2:
			g, err = geometry.NewSphereGeometry(float32(i + 1))
		case 3:
			g, err = geometry.NewPlainGeometry(2, 2)
		}
		require.NoError(t, err)
		g.SetTransformationMatrix(math.NewMat4Translation(math.Vec3{X: float32(i)}))
		objects = append(objects, scene.NewObject(fmt.Sprintf("object-%d", i), g))
	}
	return objects
}

func singular(t *testing.T, name string) *scene.Object {
	t.Helper()
	c, err := geometry.NewCylinderGeometry(1, 1)
	require.NoError(t, err)
	c.SetTransformationMatrix(math.NewMat4Scale(math.Vec3{}))
	return scene.NewObject(name, c)
}

func sphere(t *testing.T) *geometry.SphereGeometry {
	t.Helper()
	s, err := geometry.NewSphereGeometry(1)
	require.NoError(t, err)
	return s
}

func TestNewGeometrySystemValidation(t *testing.T) {
	_, err := NewGeometrySystem(&metadata.GeometrySystemConfig{Workers: 0})
	assert.Error(t, err)

	gs := newSystem(t, 1, "")
	assert.Equal(t, metadata.ErrorPolicyAbort, gs.Config.OnError)
}

func TestPackOffsetsAndShifts(t *testing.T) {
	gs := newSystem(t, 3, metadata.ErrorPolicyAbort)
	objects := mixedObjects(t, 9)

	ps, err := gs.Pack(context.Background(), objects)
	require.NoError(t, err)
	require.Len(t, ps.Objects, len(objects))

	vertexOffset, faceOffset := uint32(0), uint32(0)
	for i, entry := range ps.Objects {
		g := objects[i].Geometry
		assert.Equal(t, objects[i].ID, entry.ID)
		assert.Equal(t, objects[i].Name, entry.Name)
		assert.Equal(t, g.Type(), entry.Kind)
		assert.Equal(t, vertexOffset, entry.VertexOffset)
		assert.Equal(t, faceOffset, entry.FaceOffset)
		assert.Equal(t, uint32(g.NumVertices()), entry.VertexCount)
		assert.Equal(t, uint32(g.NumFaces()), entry.FaceCount)

		// every face of the object points into the object's own rows
		for _, f := range ps.ObjectFaces(i) {
			for _, idx := range f.Used() {
				assert.GreaterOrEqual(t, idx, int32(entry.VertexOffset))
				assert.Less(t, idx, int32(entry.VertexOffset+entry.VertexCount))
			}
		}

		// and matches what the primitive writes on its own
		local := make([]geometry.VertexRecord, g.NumVertices())
		require.NoError(t, g.SerializeVertices(local, 0))
		assert.Equal(t, local, ps.ObjectVertices(i))

		vertexOffset += entry.VertexCount
		faceOffset += entry.FaceCount
	}
	assert.Len(t, ps.Vertices, int(vertexOffset))
	assert.Len(t, ps.Faces, int(faceOffset))
}

func TestPackCylinderShift(t *testing.T) {
	gs := newSystem(t, 1, metadata.ErrorPolicyAbort)
	box, err := geometry.NewBoxGeometry(1, 1, 1)
	require.NoError(t, err)
	c, err := geometry.NewCylinderGeometry(2, 4)
	require.NoError(t, err)

	ps, err := gs.Pack(context.Background(), []*scene.Object{
		scene.NewObject("box", box),
		scene.NewObject("cylinder", c),
	})
	require.NoError(t, err)

	assert.Equal(t, []geometry.FaceRecord{
		{8, -1, -1, -1},
		{9, 10, 11, -1},
		{12, 13, 14, -1},
	}, ps.ObjectFaces(1))
	assert.Equal(t, geometry.VertexRecord{2, 2, -2, -1}, ps.Vertices[8])
}

func TestPackSameResultForAnyWorkerCount(t *testing.T) {
	objects := mixedObjects(t, 23)
	serial, err := newSystem(t, 1, metadata.ErrorPolicyAbort).Pack(context.Background(), objects)
	require.NoError(t, err)
	parallel, err := newSystem(t, 8, metadata.ErrorPolicyAbort).Pack(context.Background(), objects)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestPackAbort(t *testing.T) {
	gs := newSystem(t, 2, metadata.ErrorPolicyAbort)
	objects := append(mixedObjects(t, 3), singular(t, "flat"), singular(t, "flatter"))

	ps, err := gs.Pack(context.Background(), objects)
	assert.Nil(t, ps)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSingularTransform)
	assert.Contains(t, err.Error(), `"flat"`)
	assert.Contains(t, err.Error(), `"flatter"`)
}

func TestPackSkip(t *testing.T) {
	gs := newSystem(t, 2, metadata.ErrorPolicySkip)
	objects := mixedObjects(t, 3)
	objects = append(objects[:1], append([]*scene.Object{singular(t, "flat")}, objects[1:]...)...)

	ps, err := gs.Pack(context.Background(), objects)
	require.NoError(t, err)
	require.Len(t, ps.Objects, 3)
	for _, entry := range ps.Objects {
		assert.NotEqual(t, "flat", entry.Name)
	}
	assert.Equal(t, uint32(0), ps.Objects[0].VertexOffset)
	assert.Equal(t, ps.Objects[0].VertexCount, ps.Objects[1].VertexOffset)
}

func TestPackCountMismatch(t *testing.T) {
	tests := []struct {
		name   string
		geom   geometry.Geometry
		policy metadata.ErrorPolicy
		want   error
	}{
		{"short", shortGeometry{sphere(t)}, metadata.ErrorPolicyAbort, core.ErrCountMismatch},
		{"long", longGeometry{sphere(t)}, metadata.ErrorPolicyAbort, core.ErrCountMismatch},
		{"wild", wildGeometry{sphere(t)}, metadata.ErrorPolicyAbort, core.ErrUnknown},
		{"negative vertices", negativeVertices{sphere(t)}, metadata.ErrorPolicyAbort, core.ErrCountMismatch},
		{"negative vertices skipped", negativeVertices{sphere(t)}, metadata.ErrorPolicySkip, core.ErrCountMismatch},
		{"negative faces", negativeFaces{sphere(t)}, metadata.ErrorPolicySkip, core.ErrCountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newSystem(t, 2, tt.policy)
			objects := append(mixedObjects(t, 2), scene.NewObject(tt.name, tt.geom))
			var ps *metadata.PackedScene
			var err error
			require.NotPanics(t, func() {
				ps, err = gs.Pack(context.Background(), objects)
			})
			assert.Nil(t, ps)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPackAfterShutdown(t *testing.T) {
	gs := newSystem(t, 2, metadata.ErrorPolicyAbort)
	require.NoError(t, gs.Shutdown())
	_, err := gs.Pack(context.Background(), mixedObjects(t, 3))
	assert.ErrorIs(t, err, ErrJobSystemClosed)
}

func TestPackNilGeometry(t *testing.T) {
	gs := newSystem(t, 1, metadata.ErrorPolicyAbort)
	_, err := gs.Pack(context.Background(), []*scene.Object{{Name: "empty"}})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestPackCancelled(t *testing.T) {
	gs := newSystem(t, 1, metadata.ErrorPolicyAbort)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gs.Pack(ctx, mixedObjects(t, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPackEmpty(t *testing.T) {
	gs := newSystem(t, 1, metadata.ErrorPolicyAbort)
	ps, err := gs.Pack(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ps.Objects)
	assert.Empty(t, ps.Vertices)
	assert.Empty(t, ps.Faces)
}

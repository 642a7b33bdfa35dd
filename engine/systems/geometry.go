package systems

import (
	"context"
	"errors"
	"fmt"
	gomath "math"
	"sync"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/geometry"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/spaghettifunk/rtx/engine/scene"
)

/**
 * @brief The geometry system packs the objects of a scene into the shared
 * vertex and face buffers.
 *
 * Offsets are computed up front in a single pass, then every object is
 * serialized by the job system into its own disjoint slice of the buffers.
 * Workers never touch each other's slices, so the buffers need no locking.
 */
type GeometrySystem struct {
	Config *metadata.GeometrySystemConfig
	jobs   *JobSystem
}

// packFailure is an object that could not be serialized.
type packFailure struct {
	index int
	err   error
}

func NewGeometrySystem(config *metadata.GeometrySystemConfig) (*GeometrySystem, error) {
	if config.Workers <= 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.Workers must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	if config.OnError == "" {
		config.OnError = metadata.ErrorPolicyAbort
	}

	js, err := NewJobSystem(config.Workers, config.QueueSize)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &GeometrySystem{
		Config: config,
		jobs:   js,
	}, nil
}

func (gs *GeometrySystem) Shutdown() error {
	return gs.jobs.Shutdown()
}

/**
 * @brief Packs objects into a new PackedScene. With the abort policy any
 * failing object fails the pack and every failure is reported. With the skip
 * policy failing objects are left out of the result.
 */
func (gs *GeometrySystem) Pack(ctx context.Context, objects []*scene.Object) (*metadata.PackedScene, error) {
	clock := core.NewClock()
	clock.Start()

	ps, failures, err := gs.pack(ctx, objects)
	if err != nil {
		return nil, err
	}

	dropped := 0
	if len(failures) > 0 {
		if gs.Config.OnError != metadata.ErrorPolicySkip {
			errs := make([]error, 0, len(failures))
			for _, f := range failures {
				errs = append(errs, f.err)
			}
			clock.Update()
			core.MetricsUpdate(clock.Elapsed(), 0, 0, 0, len(failures))
			return nil, errors.Join(errs...)
		}

		survivors := make([]*scene.Object, 0, len(objects)-len(failures))
		failed := make(map[int]bool, len(failures))
		for _, f := range failures {
			core.LogWarn("skipping object: %s", f.err)
			failed[f.index] = true
		}
		for i, o := range objects {
			if !failed[i] {
				survivors = append(survivors, o)
			}
		}
		dropped = len(failures)

		// serialization is deterministic, so the survivors pack cleanly
		ps, failures, err = gs.pack(ctx, survivors)
		if err != nil {
			return nil, err
		}
		if len(failures) > 0 {
			return nil, fmt.Errorf("repack after skipping %d objects: %w", dropped, failures[0].err)
		}
	}

	clock.Update()
	core.MetricsUpdate(clock.Elapsed(), len(ps.Objects), len(ps.Vertices), len(ps.Faces), dropped)
	core.LogDebug("packed %d objects (%d vertices, %d faces) in %s", len(ps.Objects), len(ps.Vertices), len(ps.Faces), clock.Elapsed())
	return ps, nil
}

// layout runs the sizing pass: one ObjectEntry per object with absolute
// offsets, plus the buffer totals.
func layout(objects []*scene.Object) ([]metadata.ObjectEntry, int, int, error) {
	entries := make([]metadata.ObjectEntry, len(objects))
	vertexTotal, faceTotal := 0, 0
	for i, o := range objects {
		if o == nil || o.Geometry == nil {
			return nil, 0, 0, fmt.Errorf("object %d has no geometry: %w", i, core.ErrInvalidParameter)
		}
		nv, nf := o.Geometry.NumVertices(), o.Geometry.NumFaces()
		if nv < 0 || nf < 0 {
			return nil, 0, 0, fmt.Errorf("object %q declares %d vertices and %d faces: %w", o.Name, nv, nf, core.ErrCountMismatch)
		}
		entries[i] = metadata.ObjectEntry{
			ID:           o.ID,
			Name:         o.Name,
			Kind:         o.Geometry.Type(),
			VertexOffset: uint32(vertexTotal),
			VertexCount:  uint32(nv),
			FaceOffset:   uint32(faceTotal),
			FaceCount:    uint32(nf),
		}
		vertexTotal += nv
		faceTotal += nf
		// face records address vertices with int32
		if vertexTotal > gomath.MaxInt32 || faceTotal > gomath.MaxInt32 {
			return nil, 0, 0, fmt.Errorf("scene of %d vertices and %d faces: %w", vertexTotal, faceTotal, core.ErrOffsetOverflow)
		}
	}
	return entries, vertexTotal, faceTotal, nil
}

func (gs *GeometrySystem) pack(ctx context.Context, objects []*scene.Object) (*metadata.PackedScene, []packFailure, error) {
	entries, vertexTotal, faceTotal, err := layout(objects)
	if err != nil {
		return nil, nil, err
	}

	ps := &metadata.PackedScene{
		Vertices: make([]geometry.VertexRecord, vertexTotal),
		Faces:    make([]geometry.FaceRecord, faceTotal),
		Objects:  entries,
	}

	// each job only writes errs[i]
	errs := make([]error, len(objects))
	var wg sync.WaitGroup
	var cancelled error
	for i, o := range objects {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		entry := entries[i]
		wg.Add(1)
		err := gs.jobs.Submit(metadata.JobTask{
			Name: o.Name,
			Run: func() error {
				return serializeObject(ps, entry, o.Geometry)
			},
			OnFailure: func(err error) {
				errs[i] = fmt.Errorf("object %q: %w", o.Name, err)
			},
			OnCompletionCallback: wg.Done,
		})
		if err != nil {
			wg.Done()
			cancelled = err
			break
		}
	}
	wg.Wait()
	if cancelled != nil {
		return nil, nil, cancelled
	}

	var failures []packFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, packFailure{index: i, err: err})
		}
	}
	return ps, failures, nil
}

// Unwritten slots are filled with these before serializing, so that a
// primitive writing fewer records than it declared is caught.
var (
	vertexSentinelBits = uint32(0x7fc0dead)
	vertexSentinel     = geometry.VertexRecord{
		gomath.Float32frombits(vertexSentinelBits),
		gomath.Float32frombits(vertexSentinelBits),
		gomath.Float32frombits(vertexSentinelBits),
		gomath.Float32frombits(vertexSentinelBits),
	}
	faceSentinel = geometry.FaceRecord{gomath.MinInt32, gomath.MinInt32, gomath.MinInt32, gomath.MinInt32}
)

func isVertexSentinel(r geometry.VertexRecord) bool {
	for _, v := range r {
		if gomath.Float32bits(v) != vertexSentinelBits {
			return false
		}
	}
	return true
}

// serializeObject writes one object into its slices and moves its face
// indices from local to absolute. The primitive only ever sees the buffers
// up to the end of its own range.
func serializeObject(ps *metadata.PackedScene, entry metadata.ObjectEntry, g geometry.Geometry) error {
	vEnd := entry.VertexOffset + entry.VertexCount
	vertices := ps.Vertices[entry.VertexOffset:vEnd]
	for j := range vertices {
		vertices[j] = vertexSentinel
	}
	if err := g.SerializeVertices(ps.Vertices[:vEnd:vEnd], int(entry.VertexOffset)); err != nil {
		return overrun(err, entry.VertexCount)
	}
	for j, r := range vertices {
		if isVertexSentinel(r) {
			return fmt.Errorf("vertex record %d of %d not written: %w", j, entry.VertexCount, core.ErrCountMismatch)
		}
	}

	fEnd := entry.FaceOffset + entry.FaceCount
	faces := ps.Faces[entry.FaceOffset:fEnd]
	for j := range faces {
		faces[j] = faceSentinel
	}
	if err := g.SerializeFaces(ps.Faces[:fEnd:fEnd], int(entry.FaceOffset)); err != nil {
		return overrun(err, entry.FaceCount)
	}

	for j, f := range faces {
		if f == faceSentinel {
			return fmt.Errorf("face record %d of %d not written: %w", j, entry.FaceCount, core.ErrCountMismatch)
		}
		for _, idx := range f {
			if idx != geometry.UnusedIndex && (idx < 0 || idx >= int32(entry.VertexCount)) {
				return fmt.Errorf("face %d references local vertex %d of %d: %w", j, idx, entry.VertexCount, core.ErrInvalidFace)
			}
		}
		faces[j] = f.Shift(int32(entry.VertexOffset))
	}
	return nil
}

// overrun relabels an overflow as a count mismatch: the offset is correct by
// construction, so running off the end of the window means the primitive
// tried to write more records than it declared.
func overrun(err error, declared uint32) error {
	if errors.Is(err, core.ErrOffsetOverflow) {
		return fmt.Errorf("more than %d declared records: %w: %w", declared, core.ErrCountMismatch, err)
	}
	return err
}

package renderer

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/geometry"
	"github.com/spaghettifunk/rtx/engine/math"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
)

// DecodeAffine rebuilds a matrix from three transposed rows, the way the
// kernel does. Row 3 is [0, 0, 0, 1].
func DecodeAffine(rows []geometry.VertexRecord) (math.Mat4, error) {
	if len(rows) != 3 {
		return math.Mat4{}, fmt.Errorf("%d matrix rows: %w", len(rows), core.ErrCountMismatch)
	}
	return math.NewMat4FromRows(rows[0].Vec4(), rows[1].Vec4(), rows[2].Vec4()), nil
}

// AnalyticPrimitive is an analytic object as seen from the kernel side.
type AnalyticPrimitive struct {
	Kind      geometry.PrimitiveKind
	Param     geometry.VertexRecord
	Transform math.Mat4
	Inverse   math.Mat4
}

// DecodeAnalytic follows the face records of object i to its parameter and
// matrix rows. Face indices are absolute, as packed.
func DecodeAnalytic(ps *metadata.PackedScene, i int) (AnalyticPrimitive, error) {
	if i < 0 || i >= len(ps.Objects) {
		return AnalyticPrimitive{}, fmt.Errorf("object %d of %d: %w", i, len(ps.Objects), core.ErrOffsetOverflow)
	}
	entry := ps.Objects[i]
	if entry.Kind == geometry.PrimitiveKindStandard {
		return AnalyticPrimitive{}, fmt.Errorf("object %d is a mesh: %w", i, core.ErrUnknownPrimitive)
	}
	faces := ps.ObjectFaces(i)
	if len(faces) != 3 {
		return AnalyticPrimitive{}, fmt.Errorf("object %d has %d faces: %w", i, len(faces), core.ErrCountMismatch)
	}

	rows := func(f geometry.FaceRecord) ([]geometry.VertexRecord, error) {
		used := f.Used()
		out := make([]geometry.VertexRecord, 0, len(used))
		for _, idx := range used {
			if idx < 0 || int(idx) >= len(ps.Vertices) {
				return nil, fmt.Errorf("vertex %d: %w", idx, core.ErrInvalidFace)
			}
			out = append(out, ps.Vertices[idx])
		}
		return out, nil
	}

	param, err := rows(faces[0])
	if err != nil {
		return AnalyticPrimitive{}, err
	}
	if len(param) != 1 {
		return AnalyticPrimitive{}, fmt.Errorf("object %d parameter face: %w", i, core.ErrCountMismatch)
	}
	forward, err := rows(faces[1])
	if err != nil {
		return AnalyticPrimitive{}, err
	}
	inverse, err := rows(faces[2])
	if err != nil {
		return AnalyticPrimitive{}, err
	}

	p := AnalyticPrimitive{Kind: entry.Kind, Param: param[0]}
	if p.Transform, err = DecodeAffine(forward); err != nil {
		return AnalyticPrimitive{}, err
	}
	if p.Inverse, err = DecodeAffine(inverse); err != nil {
		return AnalyticPrimitive{}, err
	}
	return p, nil
}

package geometry

import (
	"fmt"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/math"
)

/**
 * @brief Geometry is a primitive that can be packed into the shared vertex
 * and face buffers read by the trace kernel.
 *
 * The aggregator sizes the buffers with NumVertices/NumFaces, assigns each
 * primitive a disjoint range and then calls the Serialize methods. Both
 * Serialize methods write exactly the declared number of records starting at
 * offset and nothing outside of that range. Face records use indices local
 * to the primitive's own vertex block; shifting them is up to the caller.
 *
 * A failed Serialize call leaves the buffer untouched and returns an error
 * wrapping one of core.ErrOffsetOverflow, core.ErrCountMismatch,
 * core.ErrSingularTransform or core.ErrNonAffineTransform.
 */
type Geometry interface {
	Type() PrimitiveKind
	NumVertices() int
	NumFaces() int
	SerializeVertices(buf []VertexRecord, offset int) error
	SerializeFaces(buf []FaceRecord, offset int) error
	TransformationMatrix() math.Mat4
	// SetTransformationMatrix replaces the object to world matrix. The
	// matrix is validated when serializing, not here.
	SetTransformationMatrix(m math.Mat4)
	// Transform returns a copy of the geometry carrying m. The receiver is
	// left unchanged.
	Transform(m math.Mat4) Geometry
}

// transformable holds the object to world matrix every primitive owns.
type transformable struct {
	transformationMatrix math.Mat4
}

func newTransformable() transformable {
	return transformable{transformationMatrix: math.NewMat4Identity()}
}

func (t *transformable) TransformationMatrix() math.Mat4 {
	return t.transformationMatrix
}

func (t *transformable) SetTransformationMatrix(m math.Mat4) {
	t.transformationMatrix = m
}

func checkRange(capacity, offset, count int) error {
	if offset < 0 || count < 0 || offset > capacity-count {
		return fmt.Errorf("range [%d, %d) in buffer of %d: %w", offset, offset+count, capacity, core.ErrOffsetOverflow)
	}
	return nil
}

func commitVertices(buf []VertexRecord, offset, declared int, records []VertexRecord) error {
	if len(records) != declared {
		return fmt.Errorf("%d vertex records for %d declared: %w", len(records), declared, core.ErrCountMismatch)
	}
	if err := checkRange(len(buf), offset, declared); err != nil {
		return err
	}
	copy(buf[offset:offset+declared], records)
	return nil
}

func commitFaces(buf []FaceRecord, offset, declared int, records []FaceRecord) error {
	if len(records) != declared {
		return fmt.Errorf("%d face records for %d declared: %w", len(records), declared, core.ErrCountMismatch)
	}
	if err := checkRange(len(buf), offset, declared); err != nil {
		return err
	}
	copy(buf[offset:offset+declared], records)
	return nil
}

// validateTransform checks the assumptions the kernel makes about every
// matrix it reads and returns the inverse.
func validateTransform(m math.Mat4) (math.Mat4, error) {
	if !m.IsAffine() {
		return math.Mat4{}, core.ErrNonAffineTransform
	}
	return m.InverseChecked()
}

// appendTransformRows appends rows 0-2 of m and then rows 0-2 of its
// inverse. Row 3 is implicit.
func appendTransformRows(dst []VertexRecord, m math.Mat4) ([]VertexRecord, error) {
	inv, err := validateTransform(m)
	if err != nil {
		return dst, err
	}
	for row := 0; row < 3; row++ {
		dst = append(dst, vertexFromVec4(m.Row(row)))
	}
	for row := 0; row < 3; row++ {
		dst = append(dst, vertexFromVec4(inv.Row(row)))
	}
	return dst, nil
}

// analytic primitives all share the same 7/3 layout: one parameter record
// followed by the forward and inverse matrix rows.
const (
	analyticNumVertices = 1 + 3 + 3
	analyticNumFaces    = 1 + 1 + 1
)

var analyticFaces = [analyticNumFaces]FaceRecord{
	{0, -1, -1, -1},
	{1, 2, 3, -1},
	{4, 5, 6, -1},
}

func serializeAnalyticVertices(kind PrimitiveKind, param VertexRecord, m math.Mat4, buf []VertexRecord, offset int) error {
	if err := checkRange(len(buf), offset, analyticNumVertices); err != nil {
		return fmt.Errorf("%s: serialize vertices at %d: %w", kind, offset, err)
	}

	records := make([]VertexRecord, 0, analyticNumVertices)
	records = append(records, param)
	records, err := appendTransformRows(records, m)
	if err != nil {
		return fmt.Errorf("%s: serialize vertices at %d: %w", kind, offset, err)
	}

	if err := commitVertices(buf, offset, analyticNumVertices, records); err != nil {
		return fmt.Errorf("%s: serialize vertices at %d: %w", kind, offset, err)
	}
	return nil
}

func serializeAnalyticFaces(kind PrimitiveKind, buf []FaceRecord, offset int) error {
	if err := commitFaces(buf, offset, analyticNumFaces, analyticFaces[:]); err != nil {
		return fmt.Errorf("%s: serialize faces at %d: %w", kind, offset, err)
	}
	return nil
}

func validPositive(v float32) bool {
	return math.IsFinite(v) && v > 0
}

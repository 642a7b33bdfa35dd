package geometry

import "github.com/spaghettifunk/rtx/engine/math"

// UnusedIndex marks an empty slot of a FaceRecord.
const UnusedIndex int32 = -1

// Record sizes in bytes, as laid out in the buffers handed to the trace
// kernel.
const (
	VertexRecordSize = 16 // 4 x float32
	FaceRecordSize   = 16 // 4 x int32
)

// VertexRecord is one row of the vertex buffer. Its meaning is purely
// positional: the face records of the owning primitive say which rows hold
// shape parameters and which hold matrix rows.
type VertexRecord [4]float32

// FaceRecord is one row of the face buffer. Each slot is either an index
// into the vertex buffer or UnusedIndex.
type FaceRecord [4]int32

func vertexFromVec4(v math.Vec4) VertexRecord {
	return VertexRecord(v.Array())
}

// Vec4 returns the record as a vector.
func (r VertexRecord) Vec4() math.Vec4 {
	return math.Vec4{X: r[0], Y: r[1], Z: r[2], W: r[3]}
}

// Shift returns the record with every used slot moved by offset.
func (f FaceRecord) Shift(offset int32) FaceRecord {
	for i, idx := range f {
		if idx != UnusedIndex {
			f[i] = idx + offset
		}
	}
	return f
}

// Used returns the indices of the record that are not UnusedIndex.
func (f FaceRecord) Used() []int32 {
	out := make([]int32, 0, len(f))
	for _, idx := range f {
		if idx != UnusedIndex {
			out = append(out, idx)
		}
	}
	return out
}

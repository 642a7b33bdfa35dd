package renderer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/geometry"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
)

var (
	ErrBadMagic      = errors.New("not a packed scene")
	ErrLayoutVersion = errors.New("unsupported layout version")
)

// Magic opens every packed scene stream.
var Magic = [4]byte{'R', 'T', 'X', 'S'}

// header is the fixed size preamble of a packed scene stream.
type header struct {
	Magic         [4]byte
	LayoutVersion uint32
	NumObjects    uint32
	NumVertices   uint32
	NumFaces      uint32
}

// objectRecord is one row of the object table as the kernel reads it.
type objectRecord struct {
	Kind         uint32
	VertexOffset uint32
	VertexCount  uint32
	FaceOffset   uint32
	FaceCount    uint32
}

// HeaderSize is the size in bytes of the stream header.
var HeaderSize = binary.Size(header{})

/**
 * @brief Writes a packed scene in little endian: header, object table,
 * vertex records and face records. Object names and IDs stay on the host.
 */
func Encode(w io.Writer, ps *metadata.PackedScene) error {
	if len(ps.Objects) > gomath.MaxInt32 || len(ps.Vertices) > gomath.MaxInt32 || len(ps.Faces) > gomath.MaxInt32 {
		return fmt.Errorf("encode: %w", core.ErrOffsetOverflow)
	}

	bw := bufio.NewWriter(w)
	h := header{
		Magic:         Magic,
		LayoutVersion: geometry.LayoutVersion,
		NumObjects:    uint32(len(ps.Objects)),
		NumVertices:   uint32(len(ps.Vertices)),
		NumFaces:      uint32(len(ps.Faces)),
	}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	table := make([]objectRecord, len(ps.Objects))
	for i, o := range ps.Objects {
		table[i] = objectRecord{
			Kind:         uint32(o.Kind),
			VertexOffset: o.VertexOffset,
			VertexCount:  o.VertexCount,
			FaceOffset:   o.FaceOffset,
			FaceCount:    o.FaceCount,
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, table); err != nil {
		return fmt.Errorf("encode object table: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, ps.Vertices); err != nil {
		return fmt.Errorf("encode vertices: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, ps.Faces); err != nil {
		return fmt.Errorf("encode faces: %w", err)
	}
	return bw.Flush()
}

// EncodedSize returns the number of bytes Encode writes for ps.
func EncodedSize(ps *metadata.PackedScene) int {
	return HeaderSize +
		len(ps.Objects)*binary.Size(objectRecord{}) +
		len(ps.Vertices)*geometry.VertexRecordSize +
		len(ps.Faces)*geometry.FaceRecordSize
}

/**
 * @brief Reads a stream written by Encode. Decoded object entries carry no
 * name or ID.
 */
func Decode(r io.Reader) (*metadata.PackedScene, error) {
	br := bufio.NewReader(r)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("magic %q: %w", h.Magic[:], ErrBadMagic)
	}
	if h.LayoutVersion != geometry.LayoutVersion {
		return nil, fmt.Errorf("version %d, want %d: %w", h.LayoutVersion, geometry.LayoutVersion, ErrLayoutVersion)
	}
	if h.NumObjects > gomath.MaxInt32 || h.NumVertices > gomath.MaxInt32 || h.NumFaces > gomath.MaxInt32 {
		return nil, fmt.Errorf("decode %d objects, %d vertices and %d faces: %w", h.NumObjects, h.NumVertices, h.NumFaces, core.ErrOffsetOverflow)
	}

	table, err := readRecords[objectRecord](br, h.NumObjects)
	if err != nil {
		return nil, fmt.Errorf("decode object table: %w", err)
	}
	ps := &metadata.PackedScene{Objects: make([]metadata.ObjectEntry, len(table))}
	if ps.Vertices, err = readRecords[geometry.VertexRecord](br, h.NumVertices); err != nil {
		return nil, fmt.Errorf("decode vertices: %w", err)
	}
	if ps.Faces, err = readRecords[geometry.FaceRecord](br, h.NumFaces); err != nil {
		return nil, fmt.Errorf("decode faces: %w", err)
	}

	for i, o := range table {
		if uint64(o.VertexOffset)+uint64(o.VertexCount) > uint64(h.NumVertices) ||
			uint64(o.FaceOffset)+uint64(o.FaceCount) > uint64(h.NumFaces) {
			return nil, fmt.Errorf("object %d out of bounds: %w", i, core.ErrOffsetOverflow)
		}
		kind := geometry.PrimitiveKind(o.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("object %d: %s: %w", i, kind, core.ErrUnknownPrimitive)
		}
		ps.Objects[i] = metadata.ObjectEntry{
			Kind:         kind,
			VertexOffset: o.VertexOffset,
			VertexCount:  o.VertexCount,
			FaceOffset:   o.FaceOffset,
			FaceCount:    o.FaceCount,
		}
	}
	return ps, nil
}

// records read per call while decoding
const readChunk = 1 << 12

// readRecords reads n records in chunks, so a header promising more
// records than the stream holds fails at the end of the data instead of
// allocating the promised size up front.
func readRecords[T any](r io.Reader, n uint32) ([]T, error) {
	chunk := make([]T, min(n, readChunk))
	out := make([]T, 0, len(chunk))
	for remaining := int(n); remaining > 0; {
		c := chunk[:min(remaining, len(chunk))]
		if err := binary.Read(r, binary.LittleEndian, c); err != nil {
			return nil, err
		}
		out = append(out, c...)
		remaining -= len(c)
	}
	return out, nil
}

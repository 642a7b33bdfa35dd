package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/rtx/engine/geometry"
)

/**
 * @brief One entry of the object table. Offsets are absolute row indices in
 * the packed vertex and face buffers.
 */
type ObjectEntry struct {
	ID           uuid.UUID
	Name         string
	Kind         geometry.PrimitiveKind
	VertexOffset uint32
	VertexCount  uint32
	FaceOffset   uint32
	FaceCount    uint32
}

/**
 * @brief The buffers handed to the trace kernel. Face records hold absolute
 * vertex indices once packed.
 */
type PackedScene struct {
	Vertices []geometry.VertexRecord
	Faces    []geometry.FaceRecord
	Objects  []ObjectEntry
}

// ObjectVertices returns the vertex records owned by object i.
func (ps *PackedScene) ObjectVertices(i int) []geometry.VertexRecord {
	o := ps.Objects[i]
	return ps.Vertices[o.VertexOffset : o.VertexOffset+o.VertexCount]
}

// ObjectFaces returns the face records owned by object i.
func (ps *PackedScene) ObjectFaces(i int) []geometry.FaceRecord {
	o := ps.Objects[i]
	return ps.Faces[o.FaceOffset : o.FaceOffset+o.FaceCount]
}

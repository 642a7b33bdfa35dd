package geometry

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/rtx/engine/core"
)

// PrimitiveKind identifies a primitive for kernel-side dispatch. The values
// are embedded in packed scenes and kernels and must never be renumbered.
type PrimitiveKind uint32

const (
	PrimitiveKindStandard PrimitiveKind = 1
	PrimitiveKindSphere   PrimitiveKind = 2
	PrimitiveKindCylinder PrimitiveKind = 3
	PrimitiveKindCone     PrimitiveKind = 4
)

// LayoutVersion is bumped whenever any entry of Layouts changes.
const LayoutVersion uint32 = 1

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveKindStandard:
		return "standard"
	case PrimitiveKindSphere:
		return "sphere"
	case PrimitiveKindCylinder:
		return "cylinder"
	case PrimitiveKindCone:
		return "cone"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", uint32(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k PrimitiveKind) Valid() bool {
	_, ok := Layouts[k]
	return ok
}

func ParsePrimitiveKind(s string) (PrimitiveKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "mesh":
		return PrimitiveKindStandard, nil
	case "sphere":
		return PrimitiveKindSphere, nil
	case "cylinder":
		return PrimitiveKindCylinder, nil
	case "cone":
		return PrimitiveKindCone, nil
	}
	return 0, fmt.Errorf("%q: %w", s, core.ErrUnknownPrimitive)
}

// Layout documents the records a primitive kind writes. A count of -1
// means the count depends on the instance.
type Layout struct {
	Vertices []string
	Faces    []string
	// NumVertices and NumFaces are len(Vertices) and len(Faces) for fixed
	// layouts and -1 for variable ones.
	NumVertices int
	NumFaces    int
}

func analyticVertexRoles(param string) []string {
	return []string{
		param,
		"transform row 0",
		"transform row 1",
		"transform row 2",
		"inverse transform row 0",
		"inverse transform row 1",
		"inverse transform row 2",
	}
}

var analyticFaceRoles = []string{
	"{0, -1, -1, -1} parameters",
	"{1, 2, 3, -1} transform rows",
	"{4, 5, 6, -1} inverse transform rows",
}

// Layouts is the per-kind record table shared with the kernel-side decoder.
// Matrix rows are written transposed, row i = {col0[i], col1[i], col2[i],
// col3[i]}, and the affine row [0, 0, 0, 1] is never written.
var Layouts = map[PrimitiveKind]Layout{
	PrimitiveKindStandard: {
		Vertices:    []string{"{x, y, z, 1} world space position"},
		Faces:       []string{"{a, b, c, -1} triangle"},
		NumVertices: -1,
		NumFaces:    -1,
	},
	PrimitiveKindSphere: {
		Vertices:    analyticVertexRoles("{radius, -1, -1, -1}"),
		Faces:       analyticFaceRoles,
		NumVertices: 7,
		NumFaces:    3,
	},
	PrimitiveKindCylinder: {
		Vertices:    analyticVertexRoles("{radius, y_max, y_min, -1}"),
		Faces:       analyticFaceRoles,
		NumVertices: 7,
		NumFaces:    3,
	},
	PrimitiveKindCone: {
		Vertices:    analyticVertexRoles("{radius, height, -1, -1}"),
		Faces:       analyticFaceRoles,
		NumVertices: 7,
		NumFaces:    3,
	},
}

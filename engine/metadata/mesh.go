package metadata

import (
	"github.com/spaghettifunk/citymesh/engine/math"
)

// MeshFace is a face expressed as indices into its mesh's compact vertex buffer.
type MeshFace []uint32

/**
 * @brief The decoded form of one city object for one geometry variant.
 * Vertices only holds the vertices referenced by Faces, in first use order.
 */
type Mesh struct {
	/** @brief The city object identifier. */
	ObjectID string
	/** @brief The city object type, e.g. "Building". */
	ObjectType string
	/** @brief The geometry variant this mesh was built from. */
	GeometryIndex int
	/** @brief The level of detail of the geometry, if any. */
	LOD string
	/** @brief The compact vertex buffer. */
	Vertices []math.Vec3
	/** @brief Faces as local indices into Vertices. */
	Faces []MeshFace
	/** @brief Semantic surface of each face, nil entries are unclassified. Nil when the geometry has no semantics. */
	Surfaces []*SemanticSurface
	/** @brief The semantic surface table of the geometry. */
	SurfaceTable []SemanticSurface
	/** @brief Flattened object attributes. */
	Attributes map[string]interface{}
	/** @brief The effective parent object, empty for roots. */
	Parent string
	/** @brief Bounds of Vertices in normalized space. */
	Extents math.Extents3D
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// SurfaceIndex returns the index into SurfaceTable of face i, or -1 when the
// face carries no semantic surface.
func (m *Mesh) SurfaceIndex(i int) int {
	if i < 0 || i >= len(m.Surfaces) || m.Surfaces[i] == nil {
		return -1
	}
	for j := range m.SurfaceTable {
		if &m.SurfaceTable[j] == m.Surfaces[i] {
			return j
		}
	}
	return -1
}

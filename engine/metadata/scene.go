package metadata

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/citymesh/engine/math"
)

// HierarchyEdge is a derived parent -> child relation between two city objects.
type HierarchyEdge struct {
	Parent string
	Child  string
}

/**
 * @brief All meshes built from one geometry variant index.
 */
type Scene struct {
	Name          string
	GeometryIndex int
	Meshes        []*Mesh
}

func SceneName(geometryIndex int) string {
	return fmt.Sprintf("Geometry %d", geometryIndex)
}

// Mesh returns the mesh of the given object, or nil.
func (s *Scene) Mesh(objectID string) *Mesh {
	for _, m := range s.Meshes {
		if m.ObjectID == objectID {
			return m
		}
	}
	return nil
}

/**
 * @brief The outcome of decoding one document. Errors holds every per-object
 * failure; Scenes always holds whatever could be decoded.
 */
type ImportResult struct {
	/** @brief Identifier of the import pass. */
	PassID string
	/** @brief Path of the source document, empty when decoded from memory. */
	Source string
	/** @brief The per-axis minimum subtracted from every vertex. */
	Offset math.Vec3
	/** @brief One scene per geometry variant index. */
	Scenes []*Scene
	/** @brief Parent -> child edges of the document. */
	Edges []HierarchyEdge
	/** @brief Per-object and hierarchy errors. */
	Errors []error
	/** @brief Wall time of the pass. */
	Duration time.Duration
}

func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Totals returns the number of meshes and faces across all scenes.
func (r *ImportResult) Totals() (meshes int, faces int) {
	for _, s := range r.Scenes {
		meshes += len(s.Meshes)
		for _, m := range s.Meshes {
			faces += m.FaceCount()
		}
	}
	return meshes, faces
}

package systems

import (
	"fmt"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

/**
 * @brief Builds a per-object vertex buffer holding only the vertices the
 * rings reference, in first use order, and rewrites the rings against it.
 *
 * @param vertices The global, normalized vertex buffer. Read only.
 * @param rings Outer rings in global indices.
 * @return The compact buffer and the faces in local indices.
 */
func CompactBuffer(vertices []math.Vec3, rings []metadata.Ring) ([]math.Vec3, []metadata.MeshFace, error) {
	local := make([]math.Vec3, 0)
	faces := make([]metadata.MeshFace, 0, len(rings))
	lookup := make(map[uint32]uint32)

	for _, ring := range rings {
		face := make(metadata.MeshFace, len(ring))
		for i, global := range ring {
			idx, seen := lookup[global]
			if !seen {
				if int(global) >= len(vertices) {
					return nil, nil, fmt.Errorf("%w: %d (buffer holds %d vertices)", core.ErrVertexIndexOutOfRange, global, len(vertices))
				}
				idx = uint32(len(local))
				local = append(local, vertices[global])
				lookup[global] = idx
			}
			face[i] = idx
		}
		faces = append(faces, face)
	}
	return local, faces, nil
}

package systems

import (
	"fmt"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

/**
 * @brief Resolves the outer ring of every face of a geometry, in boundary
 * order. Holes and faces without rings are dropped. The order of the result
 * is the order semantic values are matched against.
 *
 * @param g The geometry to walk.
 * @return The outer rings as global vertex indices.
 */
func ResolveOuterRings(g *metadata.Geometry) ([]metadata.Ring, error) {
	if g.ParseErr != nil {
		return nil, g.ParseErr
	}
	switch g.Type {
	case metadata.GeometryTypeMultiSurface, metadata.GeometryTypeCompositeSurface:
		return appendShellRings(nil, g.Surfaces), nil
	case metadata.GeometryTypeSolid:
		return appendSolidRings(nil, g.Solid), nil
	case metadata.GeometryTypeMultiSolid:
		return appendMultiSolidRings(nil, g.MultiSolid), nil
	case metadata.GeometryTypeUnsupported:
		return nil, fmt.Errorf("%w: '%s'", core.ErrUnsupportedGeometryType, g.TypeName)
	default:
		return nil, fmt.Errorf("%w: tag %d", core.ErrUnsupportedGeometryType, int(g.Type))
	}
}

func appendShellRings(rings []metadata.Ring, shell metadata.Shell) []metadata.Ring {
	for _, face := range shell {
		// Only the exterior ring is kept, holes are not cut out.
		if len(face) > 0 {
			rings = append(rings, face[0])
		}
	}
	return rings
}

func appendSolidRings(rings []metadata.Ring, solid metadata.Solid) []metadata.Ring {
	for _, shell := range solid {
		rings = appendShellRings(rings, shell)
	}
	return rings
}

func appendMultiSolidRings(rings []metadata.Ring, multiSolid metadata.MultiSolid) []metadata.Ring {
	for _, solid := range multiSolid {
		rings = appendSolidRings(rings, solid)
	}
	return rings
}

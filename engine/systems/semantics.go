package systems

import (
	"fmt"
	m "math"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

// NoSurface marks a face without a semantic surface.
const NoSurface = -1

// SemanticIndex is an index into a semantics surface table, or NoSurface.
type SemanticIndex int

/**
 * @brief Flattens a semantics "values" tree into one index per face. All
 * leaves must sit at the same depth; empty arrays carry no leaves and are
 * accepted at any level.
 *
 * @param values The parsed JSON tree: []interface{} nodes, float64 or nil leaves.
 * @return The flat indices and the depth of the leaves (0 if there are none).
 */
func FlattenSemanticValues(values interface{}) ([]SemanticIndex, int, error) {
	f := &valuesFlattener{depth: -1}
	if err := f.visit(values, 0); err != nil {
		return nil, 0, err
	}
	if f.depth < 0 {
		f.depth = 0
	}
	return f.out, f.depth, nil
}

type valuesFlattener struct {
	out   []SemanticIndex
	depth int
}

func (f *valuesFlattener) visit(node interface{}, depth int) error {
	switch v := node.(type) {
	case []interface{}:
		for _, child := range v {
			if err := f.visit(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return f.leaf(NoSurface, depth)
	case float64:
		if v < 0 || v != m.Trunc(v) || v > m.MaxInt32 {
			return fmt.Errorf("%w: %v is not a surface index", core.ErrMalformedNesting, v)
		}
		return f.leaf(SemanticIndex(v), depth)
	case int:
		if v < 0 {
			return fmt.Errorf("%w: %d is not a surface index", core.ErrMalformedNesting, v)
		}
		return f.leaf(SemanticIndex(v), depth)
	default:
		return fmt.Errorf("%w: unexpected %T in values", core.ErrMalformedNesting, node)
	}
}

func (f *valuesFlattener) leaf(idx SemanticIndex, depth int) error {
	if f.depth < 0 {
		f.depth = depth
	} else if f.depth != depth {
		return fmt.Errorf("%w: value at depth %d, expected %d", core.ErrMalformedNesting, depth, f.depth)
	}
	f.out = append(f.out, idx)
	return nil
}

/**
 * @brief Resolves the semantic surface of each face.
 *
 * @param sem The semantics block, may be nil.
 * @param g The geometry type, used to check the nesting depth of the values.
 * @param faceCount The number of faces ResolveOuterRings produced.
 * @return One entry per face pointing into sem.Surfaces, nil for unclassified faces.
 * Returns nil without error when there is no semantics block.
 */
func MapSemantics(sem *metadata.Semantics, g metadata.GeometryType, faceCount int) ([]*metadata.SemanticSurface, error) {
	if sem == nil {
		return nil, nil
	}
	out := make([]*metadata.SemanticSurface, faceCount)
	if sem.Values == nil {
		return out, nil
	}

	flat, depth, err := FlattenSemanticValues(sem.Values)
	if err != nil {
		return nil, err
	}
	if want := g.ValuesDepth(); len(flat) > 0 && want > 0 && depth != want {
		return nil, fmt.Errorf("%w: %s values nested %d deep, expected %d", core.ErrMalformedNesting, g, depth, want)
	}
	if len(flat) != faceCount {
		return nil, fmt.Errorf("%w: %d values for %d faces", core.ErrSemanticsLengthMismatch, len(flat), faceCount)
	}

	for i, idx := range flat {
		if idx == NoSurface {
			continue
		}
		if int(idx) >= len(sem.Surfaces) {
			return nil, fmt.Errorf("%w: face %d refers to surface %d of %d", core.ErrSurfaceIndexOutOfRange, i, idx, len(sem.Surfaces))
		}
		out[i] = &sem.Surfaces[idx]
	}
	return out, nil
}

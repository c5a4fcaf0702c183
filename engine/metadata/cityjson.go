package metadata

import (
	"sort"

	"github.com/spaghettifunk/citymesh/engine/math"
)

/** @brief Property keys that never become flattened attributes. */
var ReservedPropertyKeys = []string{"geometry", "children", "parents"}

/**
 * @brief Describes the geometry variants the decoder knows how to walk.
 * The set is closed; anything else decodes as GeometryTypeUnsupported.
 */
type GeometryType int

const (
	GeometryTypeUnsupported GeometryType = iota
	/** @brief Boundary is an array of faces. */
	GeometryTypeMultiSurface
	/** @brief Same nesting as MultiSurface. */
	GeometryTypeCompositeSurface
	/** @brief Boundary is an array of shells of faces. */
	GeometryTypeSolid
	/** @brief Boundary is an array of solids of shells of faces. */
	GeometryTypeMultiSolid
)

func (t GeometryType) String() string {
	switch t {
	case GeometryTypeMultiSurface:
		return "MultiSurface"
	case GeometryTypeCompositeSurface:
		return "CompositeSurface"
	case GeometryTypeSolid:
		return "Solid"
	case GeometryTypeMultiSolid:
		return "MultiSolid"
	default:
		return "Unsupported"
	}
}

// ParseGeometryType maps a CityJSON "type" member onto the closed set.
func ParseGeometryType(name string) GeometryType {
	switch name {
	case "MultiSurface":
		return GeometryTypeMultiSurface
	case "CompositeSurface":
		return GeometryTypeCompositeSurface
	case "Solid":
		return GeometryTypeSolid
	case "MultiSolid":
		return GeometryTypeMultiSolid
	default:
		return GeometryTypeUnsupported
	}
}

// ValuesDepth is the nesting depth of a semantics "values" array for this
// geometry type, i.e. how many array levels enclose one face value.
func (t GeometryType) ValuesDepth() int {
	switch t {
	case GeometryTypeMultiSurface, GeometryTypeCompositeSurface:
		return 1
	case GeometryTypeSolid:
		return 2
	case GeometryTypeMultiSolid:
		return 3
	default:
		return 0
	}
}

// Ring is a closed loop of global vertex indices.
type Ring []uint32

// Face is a list of rings; ring 0 is the outer boundary and the others are holes.
type Face []Ring

// Shell is a list of faces. MultiSurface and CompositeSurface boundaries are a single Shell.
type Shell []Face

// Solid is a list of shells, the first being the exterior one.
type Solid []Shell

// MultiSolid is a list of solids.
type MultiSolid []Solid

/**
 * @brief One geometry variant of a city object. Exactly one of Surfaces,
 * Solid or MultiSolid is populated, selected by Type.
 */
type Geometry struct {
	/** @brief The variant tag. */
	Type GeometryType
	/** @brief The type name as found in the document, kept for error messages. */
	TypeName string
	/** @brief The level of detail, as a string since CityJSON allows "2.2". */
	LOD string
	/** @brief Boundaries of MultiSurface and CompositeSurface geometries. */
	Surfaces Shell
	/** @brief Boundaries of Solid geometries. */
	Solid Solid
	/** @brief Boundaries of MultiSolid geometries. */
	MultiSolid MultiSolid
	/** @brief Optional semantic surfaces. */
	Semantics *Semantics
	/** @brief Set when the boundaries could not be read for Type. The decoder reports it for this geometry only. */
	ParseErr error
}

/**
 * @brief A semantic surface record. Type is e.g. "WallSurface"; any other
 * member of the record lands in Attributes.
 */
type SemanticSurface struct {
	Type       string
	Attributes map[string]interface{}
}

/**
 * @brief The semantics block of a geometry. Values mirrors the boundary
 * nesting down to face level and is kept as the parsed JSON tree
 * ([]interface{}, float64 and nil leaves).
 */
type Semantics struct {
	Surfaces []SemanticSurface
	Values   interface{}
}

/**
 * @brief A city object as read from the document.
 */
type CityObject struct {
	/** @brief The key of the object in "CityObjects". */
	ID string
	/** @brief The object type, e.g. "Building". */
	Type string
	/** @brief Geometry variants, addressed by index. */
	Geometry []Geometry
	/** @brief Identifiers of child objects, nil when the member is absent. */
	Children []string
	/** @brief Identifiers of parent objects, nil when the member is absent. */
	Parents []string
	/** @brief The complete raw record, used to flatten attributes. */
	Properties map[string]interface{}
}

// HasChildren reports whether the record carried a "children" member.
func (o *CityObject) HasChildren() bool {
	return o.Children != nil
}

// HasParents reports whether the record carried a "parents" member.
func (o *CityObject) HasParents() bool {
	return o.Parents != nil
}

/**
 * @brief A parsed CityJSON document.
 */
type Document struct {
	/** @brief The CityJSON version string. */
	Version string
	/** @brief The optional transform; nil means identity. */
	Transform *math.Transform
	/** @brief Raw (untransformed) vertices. */
	Vertices []math.Vec3
	/** @brief City objects by identifier. */
	CityObjects map[string]*CityObject
}

// ObjectIDs returns the city object identifiers in sorted order so that
// every pass over the document visits objects the same way.
func (d *Document) ObjectIDs() []string {
	ids := make([]string, 0, len(d.CityObjects))
	for id := range d.CityObjects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MaxGeometryCount is the largest number of geometry variants on any object.
func (d *Document) MaxGeometryCount() int {
	max := 0
	for _, o := range d.CityObjects {
		if len(o.Geometry) > max {
			max = len(o.Geometry)
		}
	}
	return max
}

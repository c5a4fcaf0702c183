package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when there are no vertices to normalize.
	ErrEmptyInput = errors.New("empty vertex input")
	// ErrUnsupportedGeometryType is returned for geometry types other than
	// MultiSurface, CompositeSurface, Solid and MultiSolid.
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type")
	// ErrSemanticsLengthMismatch is returned when the flattened semantic values
	// do not line up one to one with the resolved faces.
	ErrSemanticsLengthMismatch = errors.New("semantic values count does not match face count")
	// ErrUnknownReference is returned when a hierarchy edge names an object
	// that is not part of the document.
	ErrUnknownReference = errors.New("unknown city object reference")
	// ErrMalformedNesting is returned when the semantic values array is not
	// uniformly nested or holds something other than indices and nulls.
	ErrMalformedNesting = errors.New("malformed semantic values nesting")

	ErrVertexIndexOutOfRange  = errors.New("vertex index out of range")
	ErrSurfaceIndexOutOfRange = errors.New("semantic surface index out of range")
	ErrInconsistentHierarchy  = errors.New("children and parents disagree")
	ErrMalformedDocument      = errors.New("malformed CityJSON document")
	ErrMalformedBoundaries    = errors.New("malformed geometry boundaries")
)

// DecodeError ties a decode failure to the city object and geometry variant
// it happened in. GeometryIndex is -1 for failures that are not tied to a
// single geometry.
type DecodeError struct {
	ObjectID      string
	GeometryIndex int
	Err           error
}

func (e *DecodeError) Error() string {
	if e.GeometryIndex < 0 {
		return fmt.Sprintf("object '%s': %v", e.ObjectID, e.Err)
	}
	return fmt.Sprintf("object '%s' geometry %d: %v", e.ObjectID, e.GeometryIndex, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// HierarchyError reports a parent/child relation that cannot be honoured.
// It always matches ErrUnknownReference; Reason tells which check failed.
type HierarchyError struct {
	Parent string
	Child  string
	Reason error
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("hierarchy edge '%s' -> '%s': %v", e.Parent, e.Child, e.Reason)
}

func (e *HierarchyError) Unwrap() []error {
	if e.Reason == nil || e.Reason == ErrUnknownReference {
		return []error{ErrUnknownReference}
	}
	return []error{ErrUnknownReference, e.Reason}
}

// ErrorKind returns a short label for the sentinel wrapped by err. It is used
// as a metrics label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrUnsupportedGeometryType):
		return "unsupported_geometry_type"
	case errors.Is(err, ErrSemanticsLengthMismatch):
		return "semantics_length_mismatch"
	case errors.Is(err, ErrMalformedNesting):
		return "malformed_nesting"
	case errors.Is(err, ErrInconsistentHierarchy):
		return "inconsistent_hierarchy"
	case errors.Is(err, ErrUnknownReference):
		return "unknown_reference"
	case errors.Is(err, ErrVertexIndexOutOfRange):
		return "vertex_index_out_of_range"
	case errors.Is(err, ErrSurfaceIndexOutOfRange):
		return "surface_index_out_of_range"
	case errors.Is(err, ErrMalformedBoundaries):
		return "malformed_boundaries"
	case errors.Is(err, ErrMalformedDocument):
		return "malformed_document"
	default:
		return "unknown"
	}
}

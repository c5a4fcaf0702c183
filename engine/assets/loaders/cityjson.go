package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

type CityJSONLoader struct{}

// wire format of a CityJSON file, only the members the decoder needs
type cityJSONFile struct {
	Type        string                     `json:"type"`
	Version     string                     `json:"version"`
	Transform   *transformRecord           `json:"transform"`
	Vertices    [][]float64                `json:"vertices"`
	CityObjects map[string]json.RawMessage `json:"CityObjects"`
}

type transformRecord struct {
	Scale     []float64 `json:"scale"`
	Translate []float64 `json:"translate"`
}

type cityObjectRecord struct {
	Type     string           `json:"type"`
	Geometry []geometryRecord `json:"geometry"`
	Children []string         `json:"children"`
	Parents  []string         `json:"parents"`
}

type geometryRecord struct {
	Type       string           `json:"type"`
	LOD        json.RawMessage  `json:"lod"`
	Boundaries json.RawMessage  `json:"boundaries"`
	Semantics  *semanticsRecord `json:"semantics"`
}

type semanticsRecord struct {
	Surfaces []map[string]interface{} `json:"surfaces"`
	Values   interface{}              `json:"values"`
}

func (cl *CityJSONLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading CityJSON file %s", path)
	}
	doc, err := ParseCityJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing CityJSON file %s", path)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeCityJSON,
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     doc,
	}, nil
}

func (cl *CityJSONLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("cannot unload a nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// ParseCityJSON turns CityJSON text into a Document. Only structural problems
// of the document are reported; geometry problems, including boundaries that
// do not fit their type, are checked later by the decoder per object.
func ParseCityJSON(data []byte) (*metadata.Document, error) {
	var file cityJSONFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
	}
	if file.Type != "" && file.Type != "CityJSON" {
		return nil, fmt.Errorf("%w: type is '%s', expected 'CityJSON'", core.ErrMalformedDocument, file.Type)
	}

	doc := &metadata.Document{
		Version:     file.Version,
		Vertices:    make([]math.Vec3, len(file.Vertices)),
		CityObjects: make(map[string]*metadata.CityObject, len(file.CityObjects)),
	}

	if file.Transform != nil {
		t, err := parseTransform(file.Transform)
		if err != nil {
			return nil, err
		}
		doc.Transform = t
	}

	for i, v := range file.Vertices {
		if len(v) != 3 {
			return nil, fmt.Errorf("%w: vertex %d has %d coordinates", core.ErrMalformedDocument, i, len(v))
		}
		doc.Vertices[i] = math.NewVec3(v[0], v[1], v[2])
	}

	for id, raw := range file.CityObjects {
		obj, err := parseCityObject(id, raw)
		if err != nil {
			return nil, err
		}
		doc.CityObjects[id] = obj
	}

	return doc, nil
}

func parseTransform(t *transformRecord) (*math.Transform, error) {
	if len(t.Scale) != 3 || len(t.Translate) != 3 {
		return nil, fmt.Errorf("%w: transform needs 3 scale and 3 translate values", core.ErrMalformedDocument)
	}
	return math.TransformFromScaleTranslate(
		math.NewVec3(t.Scale[0], t.Scale[1], t.Scale[2]),
		math.NewVec3(t.Translate[0], t.Translate[1], t.Translate[2]),
	), nil
}

func parseCityObject(id string, raw json.RawMessage) (*metadata.CityObject, error) {
	var record cityObjectRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: city object '%s': %v", core.ErrMalformedDocument, id, err)
	}
	var props map[string]interface{}
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("%w: city object '%s': %v", core.ErrMalformedDocument, id, err)
	}

	obj := &metadata.CityObject{
		ID:         id,
		Type:       record.Type,
		Geometry:   make([]metadata.Geometry, 0, len(record.Geometry)),
		Children:   record.Children,
		Parents:    record.Parents,
		Properties: props,
	}
	for i := range record.Geometry {
		obj.Geometry = append(obj.Geometry, parseGeometry(&record.Geometry[i]))
	}
	return obj, nil
}

// parseGeometry never fails the document: boundaries that do not match the
// geometry type are kept as ParseErr and reported when the object is decoded.
func parseGeometry(record *geometryRecord) metadata.Geometry {
	g := metadata.Geometry{
		Type:     metadata.ParseGeometryType(record.Type),
		TypeName: record.Type,
		LOD:      parseLOD(record.LOD),
	}

	switch g.Type {
	case metadata.GeometryTypeMultiSurface, metadata.GeometryTypeCompositeSurface:
		g.ParseErr = unmarshalBoundaries(record.Boundaries, &g.Surfaces)
	case metadata.GeometryTypeSolid:
		g.ParseErr = unmarshalBoundaries(record.Boundaries, &g.Solid)
	case metadata.GeometryTypeMultiSolid:
		g.ParseErr = unmarshalBoundaries(record.Boundaries, &g.MultiSolid)
	default:
		// Unsupported types keep their name; the decoder reports them per object.
	}

	if record.Semantics != nil {
		sem := &metadata.Semantics{
			Surfaces: make([]metadata.SemanticSurface, len(record.Semantics.Surfaces)),
			Values:   record.Semantics.Values,
		}
		for i, s := range record.Semantics.Surfaces {
			sem.Surfaces[i] = parseSemanticSurface(s)
		}
		g.Semantics = sem
	}
	return g
}

func unmarshalBoundaries(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedBoundaries, err)
	}
	return nil
}

func parseSemanticSurface(record map[string]interface{}) metadata.SemanticSurface {
	s := metadata.SemanticSurface{Attributes: make(map[string]interface{}, len(record))}
	for k, v := range record {
		if k == "type" {
			if name, ok := v.(string); ok {
				s.Type = name
			}
			continue
		}
		s.Attributes[k] = v
	}
	return s
}

// parseLOD accepts both the numeric form (2) and the string form ("2.2").
func parseLOD(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/citymesh/engine/assets/loaders"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

const decodeDocument = `{
  "type": "CityJSON",
  "version": "2.0",
  "transform": {"scale": [1, 1, 1], "translate": [10, 20, 30]},
  "vertices": [[0, 0, 0], [4, 0, 0], [4, 4, 0], [0, 4, 0], [0, 0, 6], [9, 9, 9]],
  "CityObjects": {
    "building-1": {
      "type": "Building",
      "attributes": {"roofType": "flat", "owner": {"name": "TU Delft"}},
      "children": ["part-1"],
      "geometry": [
        {
          "type": "MultiSurface",
          "lod": "2",
          "boundaries": [[[0, 1, 2, 3], [1, 2, 3]], [[0, 1, 4]], [[2, 3, 4]]],
          "semantics": {
            "surfaces": [{"type": "GroundSurface"}, {"type": "WallSurface"}],
            "values": [0, 1, null]
          }
        },
        {"type": "MultiSurface", "lod": "1", "boundaries": [[[0, 1, 2]]]}
      ]
    },
    "part-1": {
      "type": "BuildingPart",
      "parents": ["building-1"],
      "geometry": [{"type": "Solid", "lod": "1", "boundaries": [[[[0, 1, 4]], [[1, 2, 4]]]]}]
    },
    "tree-1": {
      "type": "SolitaryVegetationObject",
      "geometry": [{"type": "MultiPoint", "lod": "1", "boundaries": [5]}]
    }
  }
}`

func newTestDecoder(t *testing.T, config DecoderSystemConfig) *DecoderSystem {
	t.Helper()
	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatalf("NewJobSystem() error: %v", err)
	}
	t.Cleanup(func() { _ = js.Shutdown() })
	ds, err := NewDecoderSystem(config, js)
	if err != nil {
		t.Fatalf("NewDecoderSystem() error: %v", err)
	}
	return ds
}

func parseTestDocument(t *testing.T) *metadata.Document {
	t.Helper()
	doc, err := loaders.ParseCityJSON([]byte(decodeDocument))
	if err != nil {
		t.Fatalf("ParseCityJSON() error: %v", err)
	}
	return doc
}

func TestDecodeAccumulate(t *testing.T) {
	ds := newTestDecoder(t, DecoderSystemConfig{})
	result, err := ds.Decode(parseTestDocument(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if result.PassID == "" {
		t.Error("PassID is empty")
	}
	if result.Offset != (math.Vec3{10, 20, 30}) {
		t.Errorf("Offset = %v, want [10 20 30]", result.Offset)
	}
	if len(result.Scenes) != 2 {
		t.Fatalf("len(Scenes) = %d, want 2", len(result.Scenes))
	}
	for i, scene := range result.Scenes {
		if scene.Name != metadata.SceneName(i) || scene.GeometryIndex != i {
			t.Errorf("scene %d = %q/%d", i, scene.Name, scene.GeometryIndex)
		}
		if len(scene.Meshes) != 3 {
			t.Errorf("scene %d has %d meshes, want 3", i, len(scene.Meshes))
		}
	}

	building := result.Scenes[0].Mesh("building-1")
	if building == nil {
		t.Fatal("building-1 missing from Geometry 0")
	}
	if building.FaceCount() != 3 || building.VertexCount() != 5 {
		t.Errorf("building-1 has %d faces, %d vertices; want 3, 5", building.FaceCount(), building.VertexCount())
	}
	if building.Vertices[0] != (math.Vec3{0, 0, 0}) || building.Vertices[4] != (math.Vec3{0, 0, 6}) {
		t.Errorf("building-1 vertices = %v", building.Vertices)
	}
	if building.Surfaces[0].Type != "GroundSurface" || building.Surfaces[1].Type != "WallSurface" || building.Surfaces[2] != nil {
		t.Errorf("building-1 surfaces = %v", building.Surfaces)
	}
	if building.Attributes["attributes.owner.name"] != "TU Delft" || building.Attributes["type"] != "Building" {
		t.Errorf("building-1 attributes = %v", building.Attributes)
	}
	if _, ok := building.Attributes["children"]; ok {
		t.Error("children leaked into attributes")
	}
	if building.Parent != "" {
		t.Errorf("building-1 parent = %q, want root", building.Parent)
	}

	part := result.Scenes[0].Mesh("part-1")
	if part.Parent != "building-1" || part.FaceCount() != 2 || part.Surfaces != nil {
		t.Errorf("part-1 = parent %q, %d faces, surfaces %v", part.Parent, part.FaceCount(), part.Surfaces)
	}
	if !result.Scenes[1].Mesh("part-1").IsEmpty() {
		t.Error("part-1 has no second geometry and should be empty in Geometry 1")
	}
	if got := result.Scenes[1].Mesh("building-1"); got.LOD != "1" || got.FaceCount() != 1 {
		t.Errorf("building-1 Geometry 1 = lod %q, %d faces", got.LOD, got.FaceCount())
	}

	tree := result.Scenes[0].Mesh("tree-1")
	if tree == nil || !tree.IsEmpty() {
		t.Errorf("tree-1 should be an empty mesh, got %+v", tree)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	var derr *core.DecodeError
	if !errors.As(result.Errors[0], &derr) || derr.ObjectID != "tree-1" || derr.GeometryIndex != 0 {
		t.Errorf("error = %v, want a DecodeError for tree-1 geometry 0", result.Errors[0])
	}
	if !errors.Is(result.Errors[0], core.ErrUnsupportedGeometryType) {
		t.Errorf("error = %v, want ErrUnsupportedGeometryType", result.Errors[0])
	}

	if len(result.Edges) != 1 || result.Edges[0] != (metadata.HierarchyEdge{Parent: "building-1", Child: "part-1"}) {
		t.Errorf("Edges = %v", result.Edges)
	}
}

func TestDecodeAbort(t *testing.T) {
	ds := newTestDecoder(t, DecoderSystemConfig{ErrorPolicy: ErrorPolicyAbort})
	result, err := ds.Decode(parseTestDocument(t))
	if !errors.Is(err, core.ErrUnsupportedGeometryType) {
		t.Fatalf("Decode() error = %v, want ErrUnsupportedGeometryType", err)
	}
	if len(result.Scenes) != 1 {
		t.Errorf("len(Scenes) = %d, want 1 after abort", len(result.Scenes))
	}
	if result.Edges != nil {
		t.Errorf("Edges = %v, want none after abort", result.Edges)
	}
}

const badBoundariesDocument = `{
  "type": "CityJSON",
  "vertices": [[0, 0, 0], [1, 0, 0], [1, 1, 0]],
  "CityObjects": {
    "bad-depth": {"type": "Building", "geometry": [{"type": "MultiSurface", "boundaries": [[[[0, 1, 2]]]]}]},
    "bad-index": {"type": "Building", "geometry": [{"type": "MultiSurface", "boundaries": [[[0, -1, 2]]]}]},
    "good": {"type": "Building", "geometry": [{"type": "MultiSurface", "boundaries": [[[0, 1, 2]]]}]}
  }
}`

func TestDecodeBadBoundariesAreReportedPerObject(t *testing.T) {
	doc, err := loaders.ParseCityJSON([]byte(badBoundariesDocument))
	if err != nil {
		t.Fatalf("ParseCityJSON() error: %v", err)
	}

	ds := newTestDecoder(t, DecoderSystemConfig{})
	result, err := ds.Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(result.Scenes) != 1 {
		t.Fatalf("len(Scenes) = %d, want 1", len(result.Scenes))
	}
	if good := result.Scenes[0].Mesh("good"); good == nil || good.FaceCount() != 1 || good.VertexCount() != 3 {
		t.Errorf("good mesh = %+v, want 1 face and 3 vertices", good)
	}

	wantIDs := []string{"bad-depth", "bad-index"}
	if len(result.Errors) != len(wantIDs) {
		t.Fatalf("Errors = %v, want %d", result.Errors, len(wantIDs))
	}
	for i, id := range wantIDs {
		if !result.Scenes[0].Mesh(id).IsEmpty() {
			t.Errorf("%s should decode to an empty mesh", id)
		}
		var derr *core.DecodeError
		if !errors.As(result.Errors[i], &derr) || derr.ObjectID != id || derr.GeometryIndex != 0 {
			t.Errorf("error %d = %v, want a DecodeError for %s geometry 0", i, result.Errors[i], id)
		}
		if !errors.Is(result.Errors[i], core.ErrMalformedBoundaries) {
			t.Errorf("error %d = %v, want ErrMalformedBoundaries", i, result.Errors[i])
		}
	}
}

func TestDecodeSelectedVariants(t *testing.T) {
	ds := newTestDecoder(t, DecoderSystemConfig{Variants: []int{1}})
	result, err := ds.Decode(parseTestDocument(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(result.Scenes) != 1 || result.Scenes[0].Name != "Geometry 1" {
		t.Fatalf("Scenes = %v", result.Scenes)
	}
	if result.HasErrors() {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	ds := newTestDecoder(t, DecoderSystemConfig{})
	_, err := ds.Decode(&metadata.Document{CityObjects: map[string]*metadata.CityObject{}})
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("Decode() error = %v, want ErrEmptyInput", err)
	}
	if _, err := ds.Decode(nil); !errors.Is(err, core.ErrMalformedDocument) {
		t.Errorf("Decode(nil) error = %v, want ErrMalformedDocument", err)
	}
}

func TestNewDecoderSystemRejectsNegativeVariant(t *testing.T) {
	js, _ := NewJobSystem(1, 0)
	defer js.Shutdown()
	if _, err := NewDecoderSystem(DecoderSystemConfig{Variants: []int{-1}}, js); err == nil {
		t.Error("NewDecoderSystem() accepted a negative variant")
	}
	if _, err := NewDecoderSystem(DecoderSystemConfig{}, nil); err == nil {
		t.Error("NewDecoderSystem() accepted a nil job system")
	}
}

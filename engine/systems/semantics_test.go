package systems

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

func TestFlattenSemanticValues(t *testing.T) {
	tests := []struct {
		name      string
		values    interface{}
		want      []SemanticIndex
		wantDepth int
		wantErr   error
	}{
		{
			name:      "flat",
			values:    []interface{}{0.0, 1.0, nil, 0.0},
			want:      []SemanticIndex{0, 1, NoSurface, 0},
			wantDepth: 1,
		},
		{
			name:      "nested shells",
			values:    []interface{}{[]interface{}{0.0, 1.0}, []interface{}{nil, 2.0, 2.0}},
			want:      []SemanticIndex{0, 1, NoSurface, 2, 2},
			wantDepth: 2,
		},
		{
			name:      "empty inner arrays",
			values:    []interface{}{[]interface{}{}, []interface{}{1.0}},
			want:      []SemanticIndex{1},
			wantDepth: 2,
		},
		{
			name:      "empty",
			values:    []interface{}{},
			want:      nil,
			wantDepth: 0,
		},
		{
			name:    "mixed depth",
			values:  []interface{}{0.0, []interface{}{1.0}},
			wantErr: core.ErrMalformedNesting,
		},
		{
			name:    "not an index",
			values:  []interface{}{"roof"},
			wantErr: core.ErrMalformedNesting,
		},
		{
			name:    "fractional index",
			values:  []interface{}{1.5},
			wantErr: core.ErrMalformedNesting,
		},
		{
			name:    "negative index",
			values:  []interface{}{-1.0},
			wantErr: core.ErrMalformedNesting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, depth, err := FlattenSemanticValues(tt.values)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FlattenSemanticValues() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FlattenSemanticValues() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) || depth != tt.wantDepth {
				t.Errorf("FlattenSemanticValues() = %v, %d; want %v, %d", got, depth, tt.want, tt.wantDepth)
			}
		})
	}
}

func wallRoofSemantics(values interface{}) *metadata.Semantics {
	return &metadata.Semantics{
		Surfaces: []metadata.SemanticSurface{
			{Type: "WallSurface"},
			{Type: "RoofSurface", Attributes: map[string]interface{}{"slope": 30.0}},
		},
		Values: values,
	}
}

func TestMapSemantics(t *testing.T) {
	sem := wallRoofSemantics([]interface{}{0.0, 1.0, nil, 0.0})
	got, err := MapSemantics(sem, metadata.GeometryTypeMultiSurface, 4)
	if err != nil {
		t.Fatalf("MapSemantics() error: %v", err)
	}
	want := []*metadata.SemanticSurface{&sem.Surfaces[0], &sem.Surfaces[1], nil, &sem.Surfaces[0]}
	if len(got) != len(want) {
		t.Fatalf("MapSemantics() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("face %d surface = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMapSemanticsSolid(t *testing.T) {
	sem := wallRoofSemantics([]interface{}{[]interface{}{1.0, 0.0}, []interface{}{0.0}})
	got, err := MapSemantics(sem, metadata.GeometryTypeSolid, 3)
	if err != nil {
		t.Fatalf("MapSemantics() error: %v", err)
	}
	if got[0].Type != "RoofSurface" || got[1].Type != "WallSurface" || got[2].Type != "WallSurface" {
		t.Errorf("MapSemantics() types = %s, %s, %s", got[0].Type, got[1].Type, got[2].Type)
	}
}

func TestMapSemanticsMultiSolid(t *testing.T) {
	// Two solids: the first has one shell of two faces, the second one shell of one face.
	values := []interface{}{
		[]interface{}{[]interface{}{0.0, 1.0}},
		[]interface{}{[]interface{}{nil}},
	}
	sem := wallRoofSemantics(values)
	got, err := MapSemantics(sem, metadata.GeometryTypeMultiSolid, 3)
	if err != nil {
		t.Fatalf("MapSemantics() error: %v", err)
	}
	want := []*metadata.SemanticSurface{&sem.Surfaces[0], &sem.Surfaces[1], nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MapSemantics() = %v, want %v", got, want)
	}
}

func TestMapSemanticsWithoutValues(t *testing.T) {
	got, err := MapSemantics(nil, metadata.GeometryTypeMultiSurface, 2)
	if err != nil || got != nil {
		t.Errorf("MapSemantics(nil) = %v, %v; want nil, nil", got, err)
	}

	got, err = MapSemantics(wallRoofSemantics(nil), metadata.GeometryTypeMultiSurface, 2)
	if err != nil {
		t.Fatalf("MapSemantics() error: %v", err)
	}
	if len(got) != 2 || got[0] != nil || got[1] != nil {
		t.Errorf("MapSemantics() = %v, want two unclassified faces", got)
	}
}

func TestMapSemanticsErrors(t *testing.T) {
	tests := []struct {
		name      string
		values    interface{}
		geomType  metadata.GeometryType
		faceCount int
		wantErr   error
	}{
		{"fewer values than faces", []interface{}{0.0, 1.0, 0.0}, metadata.GeometryTypeMultiSurface, 4, core.ErrSemanticsLengthMismatch},
		{"more values than faces", []interface{}{0.0, 1.0}, metadata.GeometryTypeMultiSurface, 1, core.ErrSemanticsLengthMismatch},
		{"solid values not nested", []interface{}{0.0, 1.0}, metadata.GeometryTypeSolid, 2, core.ErrMalformedNesting},
		{"multisolid values nested as solid", []interface{}{[]interface{}{0.0, 1.0}}, metadata.GeometryTypeMultiSolid, 2, core.ErrMalformedNesting},
		{"surface out of range", []interface{}{0.0, 2.0}, metadata.GeometryTypeMultiSurface, 2, core.ErrSurfaceIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapSemantics(wallRoofSemantics(tt.values), tt.geomType, tt.faceCount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("MapSemantics() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

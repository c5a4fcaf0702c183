package systems

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

func TestResolveOuterRings(t *testing.T) {
	tests := []struct {
		name string
		geom metadata.Geometry
		want []metadata.Ring
	}{
		{
			name: "holes are discarded",
			geom: metadata.Geometry{
				Type:     metadata.GeometryTypeMultiSurface,
				Surfaces: metadata.Shell{{{0, 1, 2, 3}, {4, 5, 6}, {7, 8, 9}}},
			},
			want: []metadata.Ring{{0, 1, 2, 3}},
		},
		{
			name: "empty faces are skipped",
			geom: metadata.Geometry{
				Type:     metadata.GeometryTypeCompositeSurface,
				Surfaces: metadata.Shell{{{0, 1, 2}}, {}, {{2, 3, 0}}},
			},
			want: []metadata.Ring{{0, 1, 2}, {2, 3, 0}},
		},
		{
			name: "solid shells in order",
			geom: metadata.Geometry{
				Type: metadata.GeometryTypeSolid,
				Solid: metadata.Solid{
					{{{0, 1, 2}}, {{1, 2, 3}}},
					{{{4, 5, 6}}, {{5, 6, 7}}, {{6, 7, 4}}},
				},
			},
			want: []metadata.Ring{{0, 1, 2}, {1, 2, 3}, {4, 5, 6}, {5, 6, 7}, {6, 7, 4}},
		},
		{
			name: "multi solid",
			geom: metadata.Geometry{
				Type: metadata.GeometryTypeMultiSolid,
				MultiSolid: metadata.MultiSolid{
					{{{{0, 1, 2}, {3, 4, 5}}}},
					{{{{6, 7, 8}}}, {{{9, 10, 11}}}},
				},
			},
			want: []metadata.Ring{{0, 1, 2}, {6, 7, 8}, {9, 10, 11}},
		},
		{
			name: "no boundaries",
			geom: metadata.Geometry{Type: metadata.GeometryTypeMultiSurface},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOuterRings(&tt.geom)
			if err != nil {
				t.Fatalf("ResolveOuterRings() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveOuterRings() = %v, want %v", got, tt.want)
			}
			again, _ := ResolveOuterRings(&tt.geom)
			if !reflect.DeepEqual(got, again) {
				t.Errorf("ResolveOuterRings() is not deterministic: %v then %v", got, again)
			}
		})
	}
}

func TestResolveOuterRingsParseError(t *testing.T) {
	g := &metadata.Geometry{
		Type:     metadata.GeometryTypeMultiSurface,
		ParseErr: core.ErrMalformedBoundaries,
	}
	if _, err := ResolveOuterRings(g); !errors.Is(err, core.ErrMalformedBoundaries) {
		t.Fatalf("ResolveOuterRings() error = %v, want ErrMalformedBoundaries", err)
	}
}

func TestResolveOuterRingsUnsupported(t *testing.T) {
	g := &metadata.Geometry{Type: metadata.GeometryTypeUnsupported, TypeName: "MultiPoint"}
	_, err := ResolveOuterRings(g)
	if !errors.Is(err, core.ErrUnsupportedGeometryType) {
		t.Fatalf("ResolveOuterRings() error = %v, want ErrUnsupportedGeometryType", err)
	}
}

package systems

import (
	"reflect"
	"testing"
)

func TestFlattenAttributes(t *testing.T) {
	tests := []struct {
		name   string
		props  map[string]interface{}
		prefix []string
		want   map[string]interface{}
	}{
		{
			name:  "nested maps",
			props: map[string]interface{}{"a": map[string]interface{}{"b": 1.0, "c": map[string]interface{}{"d": 2.0}}},
			want:  map[string]interface{}{"a.b": 1.0, "a.c.d": 2.0},
		},
		{
			name: "reserved keys skipped",
			props: map[string]interface{}{
				"geometry": []interface{}{},
				"children": []interface{}{"x"},
				"parents":  []interface{}{"y"},
				"attributes": map[string]interface{}{
					"yearOfConstruction": 1990.0,
					"parents":            "skipped too",
				},
				"type": "Building",
			},
			want: map[string]interface{}{"attributes.yearOfConstruction": 1990.0, "type": "Building"},
		},
		{
			name:  "lists are bound as is",
			props: map[string]interface{}{"tags": []interface{}{"a", "b"}},
			want:  map[string]interface{}{"tags": []interface{}{"a", "b"}},
		},
		{
			name:   "prefix",
			props:  map[string]interface{}{"slope": 30.0},
			prefix: []string{"surface"},
			want:   map[string]interface{}{"surface.slope": 30.0},
		},
		{
			name:  "nil",
			props: nil,
			want:  map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenAttributes(tt.props, tt.prefix...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlattenAttributes() = %v, want %v", got, tt.want)
			}
		})
	}
}

package math

import (
	"fmt"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/ungerik/go3d/float64/vec3"
)

func TransformFromScaleTranslate(scale, translate Vec3) *Transform {
	return &Transform{Scale: scale, Translate: translate}
}

// Apply maps a raw vertex to real world coordinates. A nil transform is the identity.
func (t *Transform) Apply(v Vec3) Vec3 {
	if t == nil {
		return v
	}
	return Vec3{
		v[0]*t.Scale[0] + t.Translate[0],
		v[1]*t.Scale[1] + t.Translate[1],
		v[2]*t.Scale[2] + t.Translate[2],
	}
}

// NormalizeVertices applies the optional transform to every raw vertex and then
// moves the whole set so that its minimum on each axis is zero. The returned
// offset is the per-axis minimum that was subtracted; DenormalizeVertices
// reverses the translation with it.
func NormalizeVertices(raw []Vec3, t *Transform) ([]Vec3, Vec3, error) {
	if len(raw) == 0 {
		return nil, Vec3{}, fmt.Errorf("func NormalizeVertices: %w", core.ErrEmptyInput)
	}

	out := make([]Vec3, len(raw))
	for i := range raw {
		out[i] = t.Apply(raw[i])
	}

	offset := out[0]
	for i := 1; i < len(out); i++ {
		offset = vec3.Min(&offset, &out[i])
	}

	for i := range out {
		out[i] = vec3.Sub(&out[i], &offset)
	}
	return out, offset, nil
}

// DenormalizeVertices adds offset back to every vertex.
func DenormalizeVertices(vertices []Vec3, offset Vec3) []Vec3 {
	out := make([]Vec3, len(vertices))
	for i := range vertices {
		out[i] = vec3.Add(&vertices[i], &offset)
	}
	return out
}

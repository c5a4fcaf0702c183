package math

import "github.com/ungerik/go3d/float64/vec3"

// ExtentsOf returns the axis aligned bounds of the given vertices. The zero
// extents are returned for an empty slice.
func ExtentsOf(vertices []Vec3) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	box := vec3.Box{Min: vertices[0], Max: vertices[0]}
	for i := 1; i < len(vertices); i++ {
		box.Min = vec3.Min(&box.Min, &vertices[i])
		box.Max = vec3.Max(&box.Max, &vertices[i])
	}
	return Extents3D{Min: box.Min, Max: box.Max}
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return Vec3{
		(e.Min[0] + e.Max[0]) * 0.5,
		(e.Min[1] + e.Max[1]) * 0.5,
		(e.Min[2] + e.Max[2]) * 0.5,
	}
}

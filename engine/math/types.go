package math

import "github.com/ungerik/go3d/float64/vec3"

// Vec3 is a point or vector in the shared global coordinate space.
// Coordinates are float64 because CityJSON scale factors are fractional.
type Vec3 = vec3.T

// Vec4 represents a 4D vector, used for RGBA colours.
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief Represents the CityJSON "transform" member. Raw integer vertices are
 * mapped as value*Scale + Translate.
 */
type Transform struct {
	/** @brief Per-axis scale factors. */
	Scale Vec3
	/** @brief Per-axis translation, applied after scaling. */
	Translate Vec3
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

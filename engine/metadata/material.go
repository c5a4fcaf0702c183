package metadata

import "github.com/spaghettifunk/citymesh/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief Classification of a semantic surface as far as presentation is
 * concerned. Only three surface types are recognised; everything else is
 * unclassified.
 */
type SurfaceClass int

const (
	SurfaceClassUnclassified SurfaceClass = iota
	SurfaceClassWall
	SurfaceClassRoof
	SurfaceClassGround
)

func (c SurfaceClass) String() string {
	switch c {
	case SurfaceClassWall:
		return "WallSurface"
	case SurfaceClassRoof:
		return "RoofSurface"
	case SurfaceClassGround:
		return "GroundSurface"
	default:
		return "Unclassified"
	}
}

// ClassifySurface maps a semantic surface "type" onto a SurfaceClass.
func ClassifySurface(surfaceType string) SurfaceClass {
	switch surfaceType {
	case "WallSurface":
		return SurfaceClassWall
	case "RoofSurface":
		return SurfaceClassRoof
	case "GroundSurface":
		return SurfaceClassGround
	default:
		return SurfaceClassUnclassified
	}
}

// Class is a shorthand for ClassifySurface(s.Type). A nil surface is unclassified.
func (s *SemanticSurface) Class() SurfaceClass {
	if s == nil {
		return SurfaceClassUnclassified
	}
	return ClassifySurface(s.Type)
}

/**
 * @brief Material configuration typically loaded from a palette file or
 * created in code.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
}

/**
 * @brief A material as handed to the host, with the attributes of the
 * semantic surface it was created for.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief The surface class the material was picked for. */
	Class SurfaceClass
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief Flattened attributes of the semantic surface. */
	Attributes map[string]interface{}
}

// DefaultMaterialConfigs are the presentation defaults per surface class.
func DefaultMaterialConfigs() map[SurfaceClass]MaterialConfig {
	return map[SurfaceClass]MaterialConfig{
		SurfaceClassWall: {
			Name:          SurfaceClassWall.String(),
			DiffuseColour: math.NewVec4(0.8, 0.8, 0.8, 1),
		},
		SurfaceClassRoof: {
			Name:          SurfaceClassRoof.String(),
			DiffuseColour: math.NewVec4(0.9, 0.057, 0.086, 1),
		},
		SurfaceClassGround: {
			Name:          SurfaceClassGround.String(),
			DiffuseColour: math.NewVec4(0.507, 0.233, 0.036, 1),
		},
		SurfaceClassUnclassified: {
			Name:          DefaultMaterialName,
			DiffuseColour: math.NewVec4(0, 0, 0, 1),
		},
	}
}

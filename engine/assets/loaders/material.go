package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

// MaterialLoader reads a TOML palette that overrides the presentation colour
// of semantic surface classes:
//
//	[[material]]
//	surface = "RoofSurface"
//	name = "roof"
//	diffuse_colour = [0.9, 0.057, 0.086, 1.0]
type MaterialLoader struct{}

type paletteFile struct {
	Materials []materialRecord `toml:"material"`
}

type materialRecord struct {
	Surface       string    `toml:"surface"`
	Name          string    `toml:"name"`
	DiffuseColour []float32 `toml:"diffuse_colour"`
}

func (ml *MaterialLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading palette %s", path)
	}
	palette, err := ParsePalette(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing palette %s", path)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeMaterial,
		Name:     "palette",
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     palette,
	}, nil
}

// ParsePalette decodes palette TOML into material configs by surface class.
// Surface types other than the recognised ones set the unclassified colour.
func ParsePalette(data []byte) (map[metadata.SurfaceClass]metadata.MaterialConfig, error) {
	var file paletteFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	palette := make(map[metadata.SurfaceClass]metadata.MaterialConfig, len(file.Materials))
	for _, record := range file.Materials {
		cfg, err := record.toConfig()
		if err != nil {
			return nil, err
		}
		class := metadata.ClassifySurface(record.Surface)
		if _, dup := palette[class]; dup {
			core.LogWarn("palette defines surface class %s twice, keeping the last one", class)
		}
		palette[class] = cfg
	}
	return palette, nil
}

func (r materialRecord) toConfig() (metadata.MaterialConfig, error) {
	if len(r.DiffuseColour) != 4 {
		return metadata.MaterialConfig{}, fmt.Errorf("invalid diffuse_colour for '%s', expected 4 values, got %d", r.Surface, len(r.DiffuseColour))
	}
	cfg := metadata.MaterialConfig{
		Name:          r.Name,
		DiffuseColour: math.NewVec4(r.DiffuseColour[0], r.DiffuseColour[1], r.DiffuseColour[2], r.DiffuseColour[3]),
	}
	if cfg.Name == "" {
		cfg.Name = r.Surface
	}
	if err := validateMaterial(&cfg); err != nil {
		return metadata.MaterialConfig{}, err
	}
	return cfg, nil
}

func validateMaterial(material *metadata.MaterialConfig) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}

	// Check that DiffuseColour values are within [0.0, 1.0] range
	if !isValidVec4(material.DiffuseColour) {
		return fmt.Errorf("diffuse_colour values of '%s' must be between 0.0 and 1.0", material.Name)
	}
	return nil
}

// Helper function to validate Vec4 fields (must be between 0.0 and 1.0)
func isValidVec4(v math.Vec4) bool {
	return inRange(v.X) && inRange(v.Y) && inRange(v.Z) && inRange(v.W)
}

// Check if a float32 value is within [0.0, 1.0]
func inRange(value float32) bool {
	return math.Clamp(value, 0.0, 1.0) == value
}

func (ml *MaterialLoader) Unload(resource *metadata.Resource) error {
	if resource != nil {
		resource.Data = nil
	}
	return nil
}

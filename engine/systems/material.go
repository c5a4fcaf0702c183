package systems

import (
	"sync"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

/** @brief The configuration for the material system */
type MaterialSystemConfig struct {
	/** @brief Colour overrides by surface class, applied over the defaults. */
	Overrides map[metadata.SurfaceClass]metadata.MaterialConfig
}

// MaterialSystem hands out presentation materials for semantic surfaces.
type MaterialSystem struct {
	palette map[metadata.SurfaceClass]metadata.MaterialConfig
	mutex   sync.RWMutex
}

func NewMaterialSystem(config *MaterialSystemConfig) (*MaterialSystem, error) {
	ms := &MaterialSystem{
		palette: metadata.DefaultMaterialConfigs(),
	}
	if config != nil {
		ms.Apply(config.Overrides)
	}
	return ms, nil
}

func (ms *MaterialSystem) Shutdown() error {
	return nil
}

// Apply replaces the palette entries of the given classes.
func (ms *MaterialSystem) Apply(overrides map[metadata.SurfaceClass]metadata.MaterialConfig) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	for class, mc := range overrides {
		if mc.Name == "" {
			mc.Name = ms.palette[class].Name
		}
		ms.palette[class] = mc
		core.LogDebug("material '%s' set for %s surfaces", mc.Name, class)
	}
}

// GetDefault returns the material used for faces without a semantic surface.
func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.acquire(metadata.SurfaceClassUnclassified, nil)
}

// Acquire returns the material for a semantic surface.
func (ms *MaterialSystem) Acquire(surface *metadata.SemanticSurface) *metadata.Material {
	if surface == nil {
		return ms.GetDefault()
	}
	return ms.acquire(surface.Class(), FlattenAttributes(surface.Attributes))
}

func (ms *MaterialSystem) acquire(class metadata.SurfaceClass, attributes map[string]interface{}) *metadata.Material {
	ms.mutex.RLock()
	mc := ms.palette[class]
	ms.mutex.RUnlock()
	if attributes == nil {
		attributes = make(map[string]interface{})
	}
	return &metadata.Material{
		Name:          mc.Name,
		Class:         class,
		DiffuseColour: mc.DiffuseColour,
		Attributes:    attributes,
	}
}

/**
 * @brief Builds the material slots of a mesh: one material per entry of its
 * semantic surface table, and for each face the slot it uses. Faces without
 * a semantic surface get -1.
 */
func (ms *MaterialSystem) MaterialsFor(mesh *metadata.Mesh) ([]*metadata.Material, []int) {
	materials := make([]*metadata.Material, len(mesh.SurfaceTable))
	for i := range mesh.SurfaceTable {
		materials[i] = ms.Acquire(&mesh.SurfaceTable[i])
	}
	faceMaterials := make([]int, len(mesh.Faces))
	for i := range mesh.Faces {
		faceMaterials[i] = mesh.SurfaceIndex(i)
	}
	return materials, faceMaterials
}

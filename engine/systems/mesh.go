package systems

import (
	"fmt"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

// MeshLoaderSystem turns CityJSON resources into decoded scenes.
type MeshLoaderSystem struct {
	decoderSystem  *DecoderSystem
	resourceSystem *ResourceSystem
}

func NewMeshLoaderSystem(ds *DecoderSystem, rs *ResourceSystem) (*MeshLoaderSystem, error) {
	if ds == nil || rs == nil {
		return nil, fmt.Errorf("func NewMeshLoaderSystem - decoder and resource systems are required")
	}
	return &MeshLoaderSystem{
		decoderSystem:  ds,
		resourceSystem: rs,
	}, nil
}

func (mls *MeshLoaderSystem) Shutdown() error {
	return nil
}

/**
 * @brief Loads the named CityJSON resource and decodes it.
 *
 * @param resourceName The document path, relative to the asset base path or absolute.
 * @return The import result, possibly partial, and the pass error.
 */
func (mls *MeshLoaderSystem) LoadFromResource(resourceName string) (*metadata.ImportResult, error) {
	resource, err := mls.resourceSystem.Load(resourceName, metadata.ResourceTypeCityJSON, nil)
	if err != nil {
		core.LogError("Failed to load document '%s': %s", resourceName, err.Error())
		return nil, err
	}
	defer func() {
		if err := mls.resourceSystem.Unload(resource); err != nil {
			core.LogError(err.Error())
		}
	}()

	doc, ok := resource.Data.(*metadata.Document)
	if !ok {
		err := fmt.Errorf("failed to cast resource data to `*metadata.Document`")
		core.LogError(err.Error())
		return nil, err
	}

	result, err := mls.decoderSystem.Decode(doc)
	if result != nil {
		result.Source = resource.FullPath
	}
	if err != nil {
		core.LogError("Failed to decode document '%s': %s", resource.Name, err.Error())
		return result, err
	}

	core.LogDebug("Successfully loaded document '%s'.", resource.Name)
	return result, nil
}

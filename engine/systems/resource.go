package systems

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/citymesh/engine/assets"
	"github.com/spaghettifunk/citymesh/engine/assets/loaders"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

const InvalidID uint32 = 4294967295

/** @brief A registered resource loader. */
type ResourceLoader struct {
	/** @brief The loader identifier. */
	ID uint32
	/** @brief The loader resource type. */
	ResourceType metadata.ResourceType
	/** @brief The loader custom type string, if type is set to custom. */
	CustomType string
	/** @brief A type path which is prepended for the asset type. */
	TypePath string

	assets.Loader
}

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The maximum number of loaders that can be registered with this system. */
	MaxLoaderCount uint32
	/** @brief The relative base path for assets. */
	AssetBasePath string
}

type ResourceSystem struct {
	config            *ResourceSystemConfig
	registeredLoaders []ResourceLoader
	mutex             sync.RWMutex
}

func NewResourceSystem(config *ResourceSystemConfig) (*ResourceSystem, error) {
	if config.MaxLoaderCount == 0 {
		err := fmt.Errorf("failed to run NewResourceSystem because config.MaxLoaderCount==0")
		core.LogError(err.Error())
		return nil, err
	}

	rs := &ResourceSystem{
		config:            config,
		registeredLoaders: make([]ResourceLoader, config.MaxLoaderCount),
	}
	// Invalidate all loaders
	for i := range rs.registeredLoaders {
		rs.registeredLoaders[i].ID = InvalidID
	}

	// Auto-register known loader types here.
	rs.RegisterLoader(ResourceLoader{ResourceType: metadata.ResourceTypeCityJSON, Loader: &loaders.CityJSONLoader{}})
	rs.RegisterLoader(ResourceLoader{ResourceType: metadata.ResourceTypeMaterial, Loader: &loaders.MaterialLoader{}})

	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)

	return rs, nil
}

func (rs *ResourceSystem) Shutdown() error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	for i := range rs.registeredLoaders {
		rs.registeredLoaders[i] = ResourceLoader{ID: InvalidID}
	}
	return nil
}

func (rs *ResourceSystem) RegisterLoader(loader ResourceLoader) bool {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	// Ensure no loaders for the given type already exist
	for _, l := range rs.registeredLoaders {
		if l.ID == InvalidID {
			continue
		}
		if loader.ResourceType != metadata.ResourceTypeCustom && l.ResourceType == loader.ResourceType {
			core.LogError("ResourceSystem.RegisterLoader - Loader of type %s already exists and will not be registered.", loader.ResourceType)
			return false
		} else if len(loader.CustomType) > 0 && l.CustomType == loader.CustomType {
			core.LogError("ResourceSystem.RegisterLoader - Loader of custom type %s already exists and will not be registered.", loader.CustomType)
			return false
		}
	}
	for i := range rs.registeredLoaders {
		if rs.registeredLoaders[i].ID == InvalidID {
			rs.registeredLoaders[i] = loader
			rs.registeredLoaders[i].ID = uint32(i)
			core.LogDebug("Loader for type %s registered.", loader.ResourceType)
			return true
		}
	}
	return false
}

/**
 * @brief Loads a resource with the loader registered for its type. Relative
 * names are resolved against the asset base path and the loader type path.
 */
func (rs *ResourceSystem) Load(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if resourceType != metadata.ResourceTypeCustom {
		if l, ok := rs.find(func(l ResourceLoader) bool { return l.ResourceType == resourceType }); ok {
			return l.Load(rs.resolve(name, l), params)
		}
	}
	err := fmt.Errorf("ResourceSystem.Load - No loader for type %s was found", resourceType)
	core.LogError(err.Error())
	return nil, err
}

func (rs *ResourceSystem) LoadCustom(name, customType string, params interface{}) (*metadata.Resource, error) {
	if len(customType) > 0 {
		l, ok := rs.find(func(l ResourceLoader) bool {
			return l.ResourceType == metadata.ResourceTypeCustom && l.CustomType == customType
		})
		if ok {
			return l.Load(rs.resolve(name, l), params)
		}
	}
	err := fmt.Errorf("ResourceSystem.LoadCustom - No loader for type %s was found", customType)
	core.LogError(err.Error())
	return nil, err
}

func (rs *ResourceSystem) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	l, ok := rs.find(func(l ResourceLoader) bool { return l.ResourceType == resource.Type })
	if !ok {
		return nil
	}
	return l.Unload(resource)
}

func (rs *ResourceSystem) find(match func(ResourceLoader) bool) (ResourceLoader, bool) {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()
	for _, l := range rs.registeredLoaders {
		if l.ID != InvalidID && match(l) {
			return l, true
		}
	}
	return ResourceLoader{}, false
}

func (rs *ResourceSystem) resolve(name string, l ResourceLoader) string {
	if filepath.IsAbs(name) || rs.config.AssetBasePath == "" {
		return name
	}
	return filepath.Join(rs.config.AssetBasePath, l.TypePath, name)
}

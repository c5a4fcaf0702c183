package systems

import (
	"fmt"

	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

type SystemManagerConfig struct {
	Workers       int
	QueueSize     int
	AssetBasePath string
	Decoder       DecoderSystemConfig
	Materials     MaterialSystemConfig
}

type SystemManager struct {
	jobSystem        *JobSystem
	resourceSystem   *ResourceSystem
	decoderSystem    *DecoderSystem
	materialSystem   *MaterialSystem
	meshLoaderSystem *MeshLoaderSystem
}

func NewSystemManager(config SystemManagerConfig) (*SystemManager, error) {
	js, err := NewJobSystem(config.Workers, config.QueueSize)
	if err != nil {
		return nil, err
	}
	rs, err := NewResourceSystem(&ResourceSystemConfig{
		MaxLoaderCount: 32,
		AssetBasePath:  config.AssetBasePath,
	})
	if err != nil {
		return nil, err
	}
	ds, err := NewDecoderSystem(config.Decoder, js)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&config.Materials)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshLoaderSystem(ds, rs)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		jobSystem:        js,
		resourceSystem:   rs,
		decoderSystem:    ds,
		materialSystem:   ms,
		meshLoaderSystem: mls,
	}, nil
}

func (sm *SystemManager) Decoder() *DecoderSystem {
	return sm.decoderSystem
}

func (sm *SystemManager) Materials() *MaterialSystem {
	return sm.materialSystem
}

func (sm *SystemManager) MeshLoader() *MeshLoaderSystem {
	return sm.meshLoaderSystem
}

func (sm *SystemManager) Resources() *ResourceSystem {
	return sm.resourceSystem
}

// LoadPalette loads a TOML palette file and applies it to the material system.
func (sm *SystemManager) LoadPalette(path string) error {
	resource, err := sm.resourceSystem.Load(path, metadata.ResourceTypeMaterial, nil)
	if err != nil {
		return err
	}
	palette, ok := resource.Data.(map[metadata.SurfaceClass]metadata.MaterialConfig)
	if !ok {
		err := fmt.Errorf("failed to cast resource data to a material palette")
		core.LogError(err.Error())
		return err
	}
	sm.materialSystem.Apply(palette)
	return sm.resourceSystem.Unload(resource)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.meshLoaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.materialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.decoderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.resourceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spaghettifunk/citymesh/engine/assets"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
	"github.com/spaghettifunk/citymesh/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently watching for documents
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

var ErrNotInitialized = errors.New("engine is not initialized")

type Engine struct {
	currentStage  Stage
	config        *Config
	hostInstance  *Host
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	metricsServer *http.Server

	quit     chan struct{}
	quitOnce sync.Once
	mutex    sync.Mutex
}

func New(cfg *Config, h *Host) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if h == nil {
		h = &Host{}
	}
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	smConfig, err := cfg.systemsConfig()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	sm, err := systems.NewSystemManager(smConfig)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		_ = sm.Shutdown()
		return nil, err
	}

	h.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		config:        cfg,
		hostInstance:  h,
		assetManager:  am,
		systemManager: sm,
		quit:          make(chan struct{}),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.LogSetLevel(e.config.LogLevel)

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if e.config.PaletteFile != "" {
		if err := e.systemManager.LoadPalette(e.config.PaletteFile); err != nil {
			return err
		}
	}

	if e.hostInstance.FnInitialize != nil {
		if err := e.hostInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized with %d workers, error policy %s.", e.config.Name, e.config.Workers, e.config.ErrorPolicy)
	return nil
}

/**
 * @brief Imports one CityJSON document and hands the result to the host.
 * The result is returned even when it is partial.
 *
 * @param path The document path, absolute or relative to the asset base path.
 */
func (e *Engine) Import(path string) (*metadata.ImportResult, error) {
	if e.currentStage < EngineStageInitialized || e.currentStage == EngineStageShuttingDown {
		return nil, ErrNotInitialized
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()

	result, err := e.systemManager.MeshLoader().LoadFromResource(path)
	if err != nil {
		passID := ""
		if result != nil {
			passID = result.PassID
		}
		core.EventFire(core.EVENT_CODE_DOCUMENT_FAILED, e, core.EventContext{Path: path, PassID: passID, Data: err})
		if e.hostInstance.FnOnFailed != nil {
			e.hostInstance.FnOnFailed(path, err)
		}
		return result, err
	}

	meshes, faces := result.Totals()
	core.LogInfo("Imported '%s': %d scenes, %d meshes, %d faces, %d errors in %s.",
		path, len(result.Scenes), meshes, faces, len(result.Errors), result.Duration)

	e.assetManager.MarkLoaded(result.Source)
	core.EventFire(core.EVENT_CODE_DOCUMENT_IMPORTED, e, core.EventContext{Path: path, PassID: result.PassID, Data: result})
	if e.hostInstance.FnOnImported != nil {
		if err := e.hostInstance.FnOnImported(result); err != nil {
			core.LogError("host rejected '%s': %s", path, err.Error())
			return result, err
		}
	}
	return result, nil
}

/**
 * @brief Imports every document under the watch directory, then re-imports
 * documents as they change until ctx is done or the application quits.
 */
func (e *Engine) Watch(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return ErrNotInitialized
	}
	if e.config.WatchDir == "" {
		return fmt.Errorf("watch mode needs a watch directory")
	}
	e.currentStage = EngineStageRunning

	if e.config.MetricsAddr != "" {
		e.startMetricsServer()
	}

	if err := e.assetManager.Initialize(e.config.WatchDir); err != nil {
		core.LogError(err.Error())
		return err
	}
	for _, a := range e.assetManager.Assets(metadata.ResourceTypeCityJSON) {
		_, _ = e.Import(a.Path)
	}

	core.LogInfo("Watching '%s' for changes.", e.config.WatchDir)
	watchErrors := e.assetManager.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.quit:
			return nil
		case path, ok := <-e.assetManager.Changed():
			if !ok {
				return nil
			}
			core.EventFire(core.EVENT_CODE_DOCUMENT_CHANGED, e, core.EventContext{Path: path})
			_, _ = e.Import(path)
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			core.LogWarn("watcher: %s", err.Error())
		}
	}
}

func (e *Engine) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", core.MetricsHandler())
	e.metricsServer = &http.Server{
		Addr:              e.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		core.LogInfo("Serving metrics on %s/metrics.", e.config.MetricsAddr)
		if err := e.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			core.LogError("metrics server: %s", err.Error())
		}
	}()
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.quitOnce.Do(func() { close(e.quit) })

	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if e.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.metricsServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	if e.hostInstance.FnShutdown != nil {
		if err := e.hostInstance.FnShutdown(); err != nil {
			return err
		}
	}

	// Wait for a running import to finish before the workers go away.
	e.mutex.Lock()
	defer e.mutex.Unlock()

	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
		e.quitOnce.Do(func() { close(e.quit) })
		return false
	}
	return false
}

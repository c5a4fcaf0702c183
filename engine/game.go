package engine

import (
	"github.com/spaghettifunk/citymesh/engine/metadata"
	"github.com/spaghettifunk/citymesh/engine/systems"
)

// Host is the application the engine hands decoded documents to. Every
// callback is optional.
type Host struct {
	SystemManager *systems.SystemManager
	State         interface{}
	FnInitialize  Initialize
	FnOnImported  OnImported
	FnOnFailed    OnFailed
	FnShutdown    Shutdown
}

type Initialize func() error
type OnImported func(result *metadata.ImportResult) error
type OnFailed func(path string, err error)
type Shutdown func() error

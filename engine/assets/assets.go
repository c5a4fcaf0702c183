package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/citymesh/engine/containers"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the documents under a directory and, once started,
// keeps the index current and queues changed documents for re-import.
type AssetManager struct {
	assets map[string]AssetInfo

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changed  chan string
	errors   chan error
	pending  *containers.RingQueue[string]
}

// DefaultPendingSize bounds the number of changed documents waiting for re-import.
const DefaultPendingSize = 64

// flushInterval is how often queued paths are retried when the consumer is busy.
const flushInterval = 250 * time.Millisecond

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		fsnotify: fsWatch,
		changed:  make(chan string, DefaultPendingSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		pending:  containers.NewRingQueue[string](DefaultPendingSize),
	}, nil
}

// Initialize indexes assetsDir recursively and starts watching it.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	go am.start()
	return nil
}

// Changed delivers the paths of documents that were created or written.
func (am *AssetManager) Changed() <-chan string {
	return am.changed
}

// Errors delivers watcher errors.
func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

// Assets returns the indexed assets of the given type, sorted by path.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		if a.Type == resourceType {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Lookup returns the index entry of path.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	a, ok := am.assets[path]
	return a, ok
}

// MarkLoaded records that path was just imported.
func (am *AssetManager) MarkLoaded(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if a, ok := am.assets[path]; ok {
		a.LastLoaded = time.Now()
		am.assets[path] = a
	}
}

// Shutdown stops the watcher. The Changed and Errors channels are closed.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()
	close(am.done)
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name, false)
}

func (am *AssetManager) start() {
	ticker := time.NewTicker(flushInterval)
	defer func() {
		ticker.Stop()
		am.fsnotify.Close()
		close(am.changed)
		close(am.errors)
	}()

	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("cannot watch %s: %s", e.Name, err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(e.Name) == metadata.ResourceTypeCityJSON {
					am.queue(e.Name)
				}
			}
			// Can't stat a deleted directory, so just pretend that it's always a directory and
			// try to remove from the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}
			am.flush()

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			select {
			case am.errors <- err:
			default:
			}

		case <-ticker.C:
			am.flush()

		case <-am.done:
			return
		}
	}
}

// queue remembers a changed document, dropping the oldest one when full.
// A burst of writes to the same file is queued once.
func (am *AssetManager) queue(path string) {
	if am.pending.Contains(func(p string) bool { return p == path }) {
		return
	}
	if am.pending.IsFull() {
		dropped, _ := am.pending.Dequeue()
		core.LogWarn("re-import queue full, dropping %s", dropped)
	}
	_ = am.pending.Enqueue(path)
}

// flush hands queued paths to the consumer without blocking the watcher.
func (am *AssetManager) flush() {
	for !am.pending.IsEmpty() {
		path, _ := am.pending.Peek()
		select {
		case am.changed <- path:
			_, _ = am.pending.Dequeue()
		default:
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		if unWatch {
			am.removeAsset(walkPath)
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) metadata.ResourceType {
	assetType := DetermineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return assetType
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[path] = AssetInfo{
		Path: path,
		Type: assetType,
	}
	return assetType
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

// DetermineAssetType maps a file name onto the resource type that loads it.
func DetermineAssetType(path string) metadata.ResourceType {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".city.json"), strings.HasSuffix(name, ".json"):
		return metadata.ResourceTypeCityJSON
	case strings.HasSuffix(name, ".palette.toml"):
		return metadata.ResourceTypeMaterial
	default:
		return metadata.ResourceTypeNone
	}
}

package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/orbit/engine/assets/loaders"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// Size of the change feed. When the main loop falls behind further than
// this, new changes are dropped with a warning.
const changeBufferSize = 64

type AssetInfo struct {
	// Path relative to the assets directory, slash separated.
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the assets directory, watches it for changes and
// dispatches loads to the registered loaders.
type AssetManager struct {
	baseDir string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	watch    bool
	fsnotify *fsnotify.Watcher
	changes  chan string
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
}

// NewAssetManager creates a manager. When watch is false the directory is
// indexed once and no watcher is started.
func NewAssetManager(watch bool) *AssetManager {
	return &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		watch:   watch,
		changes: make(chan string, changeBufferSize),
		done:    make(chan struct{}),
	}
}

func (am *AssetManager) Initialize(assetsDir string) error {
	abs, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.baseDir = abs

	am.registerLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})

	if am.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create asset watcher: %w", err)
		}
		am.fsnotify = w
		am.wg.Add(1)
		go am.start()
	}

	if err := am.watchRecursive(am.baseDir, false); err != nil {
		return err
	}
	core.LogInfo("asset manager indexed %d files under %s", am.Count(), am.baseDir)
	return nil
}

// Shutdown stops the watcher and closes the change feed.
func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	am.wg.Wait()
	close(am.changes)
	if am.fsnotify != nil {
		return am.fsnotify.Close()
	}
	return nil
}

// BaseDir is the absolute assets directory.
func (am *AssetManager) BaseDir() string {
	return am.baseDir
}

// Changes carries the relative path of every file created or written under
// the assets directory.
func (am *AssetManager) Changes() <-chan string {
	return am.changes
}

// DrainChanges returns the pending changes without blocking, deduplicated
// and in arrival order.
func (am *AssetManager) DrainChanges() []string {
	var out []string
	seen := make(map[string]struct{})
	for {
		select {
		case p, ok := <-am.changes:
			if !ok {
				return out
			}
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		default:
			return out
		}
	}
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Lookup returns the index entry of a relative path.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.ToSlash(path)]
	return info, ok
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// LoadAsset loads the file at the relative path with the loader registered
// for resourceType. Shaders are addressed by directory plus name in params.
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	loader, ok := am.loaders[resourceType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type %s", resourceType)
	}

	if resourceType != metadata.ResourceTypeShader {
		am.mutex.Lock()
		asset, exists := am.assets[filepath.ToSlash(path)]
		if exists {
			asset.LastLoaded = time.Now()
			am.assets[asset.Path] = asset
		}
		am.mutex.Unlock()
		if !exists {
			return nil, fmt.Errorf("asset not found: %s", path)
		}
	}

	return loader.Load(filepath.Join(am.baseDir, filepath.FromSlash(path)), params)
}

func (am *AssetManager) UnloadAsset(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	if loader, ok := am.loaders[res.Type]; ok {
		return loader.Unload(res)
	}
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name, false); err != nil {
				core.LogWarn("failed to watch new directory %s: %s", e.Name, err)
			}
		}
		return
	}

	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		am.removeAsset(e.Name)
		return
	}

	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		rel, ok := am.handleFileEvent(e.Name)
		if !ok {
			return
		}
		select {
		case am.changes <- rel:
		default:
			core.LogWarn("asset change feed full, dropping %s", rel)
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes every file found.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent indexes an absolute path and returns its relative form.
func (am *AssetManager) handleFileEvent(path string) (string, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return "", false
	}
	rel, err := filepath.Rel(am.baseDir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[rel] = AssetInfo{
		Path: rel,
		Type: assetType,
	}
	return rel, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	rel, err := filepath.Rel(am.baseDir, path)
	if err != nil {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, filepath.ToSlash(rel))
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".spv":
		return metadata.ResourceTypeBinary
	case ".vert", ".frag", ".glsl":
		return metadata.ResourceTypeText
	case ".png", ".jpg", ".tga":
		return metadata.ResourceTypeImage
	case ".toml":
		return metadata.ResourceTypeConfig
	default:
		return metadata.ResourceTypeNone
	}
}

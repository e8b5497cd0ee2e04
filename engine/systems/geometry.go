package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

type GeometrySystemConfig struct {
	/**
	 * @brief Max number of geometries that can be loaded at once.
	 * NOTE: Should be significantly greater than the number of static meshes because
	 * the there can and will be more than one of these per mesh.
	 * Take other systems into account as well.
	 */
	MaxGeometryCount uint32
}

type geometryReference struct {
	geometry       *metadata.Geometry
	referenceCount uint64
	autoRelease    bool
}

// GeometrySystem is a registry of uploaded geometries keyed by name. The
// builtin default plane, quad and cube are created on Initialize and live
// until Shutdown.
type GeometrySystem struct {
	config   *GeometrySystemConfig
	renderer *renderer.Renderer

	mu         sync.Mutex
	registered map[string]*geometryReference
	nextID     uint32
}

func NewGeometrySystem(config *GeometrySystemConfig, r *renderer.Renderer) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		return nil, fmt.Errorf("geometry system: MaxGeometryCount must be > 0: %w", core.ErrInvalidConfig)
	}
	return &GeometrySystem{
		config:     config,
		renderer:   r,
		registered: make(map[string]*geometryReference),
	}, nil
}

// Initialize uploads the builtin geometries. The renderer must already be up.
func (gs *GeometrySystem) Initialize() error {
	builtins := []*metadata.GeometryConfig{
		metadata.GeneratePlane(metadata.DefaultGeometryName, 10, 10, 5, 5),
		metadata.GenerateQuad(metadata.QuadGeometryName, 1, 1, 1, 1),
		metadata.GenerateCube(metadata.CubeGeometryName, 1, 1, 1, 1, 1),
	}
	for _, cfg := range builtins {
		if _, err := gs.AcquireFromConfig(cfg, false); err != nil {
			return fmt.Errorf("failed to create builtin geometry %q: %w", cfg.Name, err)
		}
	}
	return nil
}

/**
 * @brief Acquires an existing geometry by name.
 */
func (gs *GeometrySystem) AcquireByName(name string) (*metadata.Geometry, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	ref, ok := gs.registered[name]
	if !ok {
		return nil, fmt.Errorf("geometry %q is not registered", name)
	}
	ref.referenceCount++
	return ref.geometry, nil
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 *
 * @param config The geometry configuration. An empty name gets a generated one.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig, autoRelease bool) (*metadata.Geometry, error) {
	if len(config.Vertices) == 0 {
		return nil, fmt.Errorf("geometry %q has no vertices", config.Name)
	}
	name := config.Name
	if name == "" {
		name = core.NewNamedIdentifier("geometry")
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, ok := gs.registered[name]; ok {
		return nil, fmt.Errorf("geometry %q is already registered", name)
	}
	if uint32(len(gs.registered)) >= gs.config.MaxGeometryCount {
		return nil, fmt.Errorf("unable to register geometry %q: limit of %d reached", name, gs.config.MaxGeometryCount)
	}

	geometry := &metadata.Geometry{
		ID:         gs.nextID,
		InternalID: metadata.InvalidID,
		Generation: metadata.InvalidGeneration,
		Name:       name,
		Center:     config.Center,
		MinExtents: config.MinExtents,
		MaxExtents: config.MaxExtents,
	}
	if err := gs.renderer.CreateGeometry(geometry, config.Vertices, config.Indices); err != nil {
		return nil, err
	}
	gs.nextID++
	gs.registered[name] = &geometryReference{
		geometry:       geometry,
		referenceCount: 1,
		autoRelease:    autoRelease,
	}
	core.LogDebug("geometry %q registered (%d vertices, %d indices)", name, geometry.VertexCount, geometry.IndexCount)
	return geometry, nil
}

/**
 * @brief Releases a reference to the provided geometry.
 * Auto released geometries are destroyed when the last reference goes.
 */
func (gs *GeometrySystem) Release(geometry *metadata.Geometry) {
	if geometry == nil {
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()

	ref, ok := gs.registered[geometry.Name]
	if !ok || ref.geometry != geometry {
		core.LogWarn("cannot release unknown geometry %q", geometry.Name)
		return
	}
	if ref.referenceCount > 0 {
		ref.referenceCount--
	}
	if ref.referenceCount == 0 && ref.autoRelease {
		gs.renderer.DestroyGeometry(ref.geometry)
		delete(gs.registered, geometry.Name)
	}
}

func (gs *GeometrySystem) GetDefault() *metadata.Geometry {
	return gs.lookup(metadata.DefaultGeometryName)
}

// GetQuad is the unit quad used for sprites.
func (gs *GeometrySystem) GetQuad() *metadata.Geometry {
	return gs.lookup(metadata.QuadGeometryName)
}

func (gs *GeometrySystem) GetCube() *metadata.Geometry {
	return gs.lookup(metadata.CubeGeometryName)
}

func (gs *GeometrySystem) lookup(name string) *metadata.Geometry {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if ref, ok := gs.registered[name]; ok {
		return ref.geometry
	}
	return nil
}

func (gs *GeometrySystem) Count() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.registered)
}

func (gs *GeometrySystem) Shutdown() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	for name, ref := range gs.registered {
		gs.renderer.DestroyGeometry(ref.geometry)
		delete(gs.registered, name)
	}
	return nil
}

package systems

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/spaghettifunk/orbit/engine/assets/loaders"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

// TextureSystem generates textures on the job system and uploads them from
// the frame loop once the pixels are ready.
type TextureSystem struct {
	config    *TextureSystemConfig
	jobSystem *JobSystem
	renderer  *renderer.Renderer
	loader    *loaders.TextureLoader

	mu         sync.Mutex
	registered map[string]*metadata.Texture
	nextID     uint32
}

func NewTextureSystem(config *TextureSystemConfig, js *JobSystem, r *renderer.Renderer) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		return nil, fmt.Errorf("texture system: MaxTextureCount must be > 0: %w", core.ErrInvalidConfig)
	}
	return &TextureSystem{
		config:     config,
		jobSystem:  js,
		renderer:   r,
		loader:     &loaders.TextureLoader{},
		registered: make(map[string]*metadata.Texture),
	}, nil
}

// Initialize creates the builtin white and checkerboard textures and waits
// for both to be on the GPU.
func (ts *TextureSystem) Initialize() error {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	builtins := map[string]*loaders.TextureParams{
		metadata.DefaultTextureName: {
			Kind:   loaders.TextureSolid,
			Width:  16,
			Height: 16,
			Color:  white,
		},
		metadata.CheckerTextureName: {
			Kind:         loaders.TextureChecker,
			Width:        64,
			Height:       64,
			Color:        white,
			Alt:          color.RGBA{R: 70, G: 70, B: 80, A: 255},
			Cells:        8,
			TargetWidth:  256,
			TargetHeight: 256,
		},
	}
	for name, params := range builtins {
		if _, err := ts.Load(name, params); err != nil {
			return err
		}
	}
	ts.jobSystem.Flush()

	for name := range builtins {
		if t := ts.lookup(name); t == nil || t.Generation == metadata.InvalidGeneration {
			return fmt.Errorf("builtin texture %q failed to load", name)
		}
	}
	return nil
}

// Load registers a texture and kicks off its generation. The returned
// texture has no GPU data until a later Update uploads it; Acquire falls
// back to the default texture until then.
func (ts *TextureSystem) Load(name string, params *loaders.TextureParams) (*metadata.Texture, error) {
	if name == "" {
		name = core.NewNamedIdentifier("texture")
	}

	ts.mu.Lock()
	if _, ok := ts.registered[name]; ok {
		ts.mu.Unlock()
		return nil, fmt.Errorf("texture %q is already registered", name)
	}
	if uint32(len(ts.registered)) >= ts.config.MaxTextureCount {
		ts.mu.Unlock()
		return nil, fmt.Errorf("unable to register texture %q: limit of %d reached", name, ts.config.MaxTextureCount)
	}
	texture := &metadata.Texture{
		ID:           ts.nextID,
		Name:         name,
		ChannelCount: 4,
		Generation:   metadata.InvalidGeneration,
	}
	ts.nextID++
	ts.registered[name] = texture
	ts.mu.Unlock()

	// Only the pixel generation runs on a worker. The upload happens in
	// OnComplete, on the goroutine driving the job system.
	err := ts.jobSystem.Submit(JobTask{
		Name: "texture:" + name,
		OnStart: func() (interface{}, error) {
			res, err := ts.loader.Load(name, params)
			if err != nil {
				return nil, err
			}
			img, ok := res.Data.(*image.RGBA)
			if !ok {
				return nil, fmt.Errorf("texture loader returned %T", res.Data)
			}
			return img, nil
		},
		OnComplete: func(result interface{}) {
			if ts.lookup(name) != texture {
				// destroyed while generating
				return
			}
			if err := ts.upload(texture, result.(*image.RGBA)); err != nil {
				core.LogError("failed to upload texture %q: %s", name, err)
			}
		},
		OnFailure: func(err error) {
			ts.forget(name)
		},
	})
	if err != nil {
		ts.forget(name)
		return nil, err
	}
	return texture, nil
}

func (ts *TextureSystem) upload(texture *metadata.Texture, img *image.RGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pixels := img.Pix
	if img.Stride != w*4 {
		pixels = make([]uint8, 0, w*h*4)
		for y := 0; y < h; y++ {
			start := y * img.Stride
			pixels = append(pixels, img.Pix[start:start+w*4]...)
		}
	}

	texture.Width = uint32(w)
	texture.Height = uint32(h)
	texture.HasTransparency = false
	for i := 3; i < len(pixels); i += 4 {
		if pixels[i] < 255 {
			texture.HasTransparency = true
			break
		}
	}
	return ts.renderer.CreateTexture(texture, pixels)
}

func (ts *TextureSystem) forget(name string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.registered, name)
}

// Update uploads textures whose generation finished since the last frame.
func (ts *TextureSystem) Update() {
	ts.jobSystem.Update()
}

// Acquire returns the named texture, or the default texture while it is
// still loading.
func (ts *TextureSystem) Acquire(name string) (*metadata.Texture, error) {
	t := ts.lookup(name)
	if t == nil {
		return nil, fmt.Errorf("texture %q is not registered", name)
	}
	if t.Generation == metadata.InvalidGeneration {
		return ts.GetDefault(), nil
	}
	return t, nil
}

func (ts *TextureSystem) GetDefault() *metadata.Texture {
	return ts.lookup(metadata.DefaultTextureName)
}

func (ts *TextureSystem) GetChecker() *metadata.Texture {
	return ts.lookup(metadata.CheckerTextureName)
}

func (ts *TextureSystem) lookup(name string) *metadata.Texture {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.registered[name]
}

func (ts *TextureSystem) Count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.registered)
}

// Destroy releases one texture. The builtins cannot be destroyed.
func (ts *TextureSystem) Destroy(name string) error {
	if name == metadata.DefaultTextureName || name == metadata.CheckerTextureName {
		return fmt.Errorf("builtin texture %q cannot be destroyed", name)
	}
	ts.mu.Lock()
	t, ok := ts.registered[name]
	delete(ts.registered, name)
	ts.mu.Unlock()
	if !ok {
		return fmt.Errorf("texture %q is not registered", name)
	}
	if t.Generation != metadata.InvalidGeneration {
		ts.renderer.DestroyTexture(t)
	}
	return nil
}

// Shutdown waits for outstanding generations and destroys every texture.
func (ts *TextureSystem) Shutdown() error {
	ts.jobSystem.Flush()

	ts.mu.Lock()
	defer ts.mu.Unlock()
	for name, t := range ts.registered {
		if t.Generation != metadata.InvalidGeneration {
			ts.renderer.DestroyTexture(t)
		}
		delete(ts.registered, name)
	}
	return nil
}

// Package config loads the engine configuration from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"

	"github.com/spaghettifunk/orbit/engine/core"
)

const (
	BackendVulkan   = "vulkan"
	BackendHeadless = "headless"
)

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Frame       FrameConfig       `toml:"frame"`
	Scene       SceneConfig       `toml:"scene"`
	Camera      CameraConfig      `toml:"camera"`

	// Path is the absolute path Load read the configuration from. Empty for
	// defaults and parsed documents.
	Path string `toml:"-"`
}

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	LogLevel    string `toml:"log_level"`
	AssetsDir   string `toml:"assets_dir"`
	// Watch the assets directory and hot reload configuration on change.
	HotReload bool `toml:"hot_reload"`
}

type RendererConfig struct {
	// vulkan or headless
	Backend    string `toml:"backend"`
	Validation bool   `toml:"validation"`
	VSync      bool   `toml:"vsync"`
	// A name from the CSS/SVG palette, e.g. "midnightblue".
	ClearColor string `toml:"clear_color"`
	// Frames rendered before a headless run stops. 0 runs until quit.
	HeadlessFrames int `toml:"headless_frames"`
}

type FrameConfig struct {
	// Upper bound of the delta handed to the game, in seconds.
	MaxDelta float64 `toml:"max_delta"`
	// 0 disables frame limiting.
	TargetFPS int `toml:"target_fps"`
}

type SceneConfig struct {
	Units      int      `toml:"units"`
	UnitSpeed  float32  `toml:"unit_speed"`
	UnitRadius float32  `toml:"unit_radius"`
	Palette    []string `toml:"palette"`
	Seed       uint64   `toml:"seed"`
}

type CameraConfig struct {
	Distance    float32 `toml:"distance"`
	MinDistance float32 `toml:"min_distance"`
	MaxDistance float32 `toml:"max_distance"`
	// Degrees.
	Yaw   float32 `toml:"yaw"`
	Pitch float32 `toml:"pitch"`
	FOV   float32 `toml:"fov"`
	// Degrees per second while an orbit key is held.
	OrbitSpeed float32 `toml:"orbit_speed"`
	// Distance units per wheel notch.
	ZoomStep float32 `toml:"zoom_step"`
}

func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "Orbit Testbed",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    "info",
			AssetsDir:   "assets",
			HotReload:   true,
		},
		Renderer: RendererConfig{
			Backend:    BackendVulkan,
			Validation: true,
			VSync:      true,
			ClearColor: "midnightblue",
		},
		Frame: FrameConfig{
			MaxDelta: 0.1,
		},
		Scene: SceneConfig{
			Units:      24,
			UnitSpeed:  160,
			UnitRadius: 12,
			Palette:    []string{"tomato", "gold", "mediumseagreen", "deepskyblue", "orchid"},
			Seed:       42,
		},
		Camera: CameraConfig{
			Distance:    8,
			MinDistance: 2,
			MaxDistance: 30,
			Yaw:         45,
			Pitch:       30,
			FOV:         45,
			OrbitSpeed:  90,
			ZoomStep:    0.5,
		},
	}
}

// Load reads the file at path on top of the defaults. A missing file is not
// an error: the defaults are returned.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("configuration file %s not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		cfg.Path = abs
	} else {
		cfg.Path = path
	}
	return cfg, nil
}

// Parse decodes a TOML document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	// a palette in the file replaces the default one instead of merging into it
	cfg.Scene.Palette = nil
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
	}
	if cfg.Scene.Palette == nil {
		cfg.Scene.Palette = Default().Scene.Palette
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		errs = append(errs, errors.New("window size must be greater than zero"))
	}
	switch strings.ToLower(c.Renderer.Backend) {
	case BackendVulkan, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("%w %q", core.ErrUnknownBackend, c.Renderer.Backend))
	}
	if _, ok := colornames.Map[strings.ToLower(c.Renderer.ClearColor)]; !ok {
		errs = append(errs, fmt.Errorf("unknown clear colour %q", c.Renderer.ClearColor))
	}
	if c.Renderer.HeadlessFrames < 0 {
		errs = append(errs, errors.New("headless_frames cannot be negative"))
	}
	if c.Frame.MaxDelta <= 0 {
		errs = append(errs, errors.New("max_delta must be positive"))
	}
	if c.Frame.TargetFPS < 0 {
		errs = append(errs, errors.New("target_fps cannot be negative"))
	}
	if c.Scene.Units < 0 {
		errs = append(errs, errors.New("unit count cannot be negative"))
	}
	if c.Scene.UnitRadius <= 0 {
		errs = append(errs, errors.New("unit_radius must be positive"))
	}
	if len(c.Scene.Palette) == 0 {
		errs = append(errs, errors.New("palette cannot be empty"))
	}
	for _, name := range c.Scene.Palette {
		if _, ok := colornames.Map[strings.ToLower(name)]; !ok {
			errs = append(errs, fmt.Errorf("unknown palette colour %q", name))
		}
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MinDistance > c.Camera.MaxDistance {
		errs = append(errs, errors.New("camera distance limits are inconsistent"))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, errors.New("camera fov must be in (0, 180)"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ClearColorRGBA resolves the configured clear colour. Unknown names fall back to black.
func (c *Config) ClearColorRGBA() color.RGBA {
	return colornames.Map[strings.ToLower(c.Renderer.ClearColor)]
}

// PaletteRGBA resolves the configured unit palette in order.
func (c *Config) PaletteRGBA() []color.RGBA {
	out := make([]color.RGBA, 0, len(c.Scene.Palette))
	for _, name := range c.Scene.Palette {
		if rgba, ok := colornames.Map[strings.ToLower(name)]; ok {
			out = append(out, rgba)
		}
	}
	return out
}

package testbed

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"

	"github.com/spaghettifunk/orbit/engine"
	"github.com/spaghettifunk/orbit/engine/assets/loaders"
	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/math"
	"github.com/spaghettifunk/orbit/engine/renderer/components"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
	"github.com/spaghettifunk/orbit/engine/scene"
)

const moonTextureName = "moon"

type TestGame struct {
	*engine.Game
}

type gameState struct {
	scene  *scene.Scene
	width  uint32
	height uint32

	ground ecs.Entity
	planet ecs.Entity
	moon   ecs.Entity
}

func NewTestGame(cfg *config.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: engine.NewApplicationConfig(cfg),
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	cfg := g.Config
	state := g.state()
	gs := g.SystemManager.GeometrySystem
	ts := g.SystemManager.TextureSystem

	state.scene = scene.New(scene.Settings{
		UnitSpeed:  cfg.Scene.UnitSpeed,
		UnitRadius: cfg.Scene.UnitRadius,
		OrbitSpeed: cfg.Camera.OrbitSpeed,
		ZoomStep:   cfg.Camera.ZoomStep,
		Highlight:  mgl32.Vec4{1, 1, 1, 0.9},
	})
	state.scene.SetCamera(components.NewCamera(
		mgl32.Vec3{0, 0, 0},
		cfg.Camera.Distance,
		cfg.Camera.MinDistance,
		cfg.Camera.MaxDistance,
		cfg.Camera.Yaw,
		cfg.Camera.Pitch,
		cfg.Camera.FOV,
	))

	moonTexture, err := ts.Load(moonTextureName, &loaders.TextureParams{
		Kind:   loaders.TextureGradient,
		Width:  64,
		Height: 64,
		Color:  color.RGBA{R: 230, G: 230, B: 250, A: 255},
		Alt:    color.RGBA{R: 90, G: 90, B: 120, A: 255},
	})
	if err != nil {
		return err
	}

	ground := scene.NewTransform(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1})
	state.ground = state.scene.SpawnMesh(ground, scene.MeshRenderer{
		Geometry: gs.GetDefault(),
		Texture:  ts.GetChecker(),
		Tint:     mgl32.Vec4{0.6, 0.6, 0.6, 1},
	}, ecs.Entity{})

	planet := scene.NewTransform(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	state.planet = state.scene.SpawnMesh(planet, scene.MeshRenderer{
		Geometry: gs.GetCube(),
		Texture:  ts.GetChecker(),
		Tint:     mgl32.Vec4{1, 1, 1, 1},
	}, ecs.Entity{})
	state.scene.AddSpin(state.planet, mgl32.Vec3{0, 1, 0}, 0.5)

	// The moon orbits because it hangs off the spinning planet.
	moon := scene.NewTransform(mgl32.Vec3{2, 0.5, 0}, mgl32.Vec3{0.4, 0.4, 0.4})
	state.moon = state.scene.SpawnMesh(moon, scene.MeshRenderer{
		Geometry: gs.GetCube(),
		Texture:  moonTexture,
		Tint:     mgl32.Vec4{1, 1, 1, 1},
	}, state.planet)
	state.scene.AddSpin(state.moon, mgl32.Vec3{1, 1, 0}, 2)

	palette := make([]mgl32.Vec4, 0, len(cfg.Scene.Palette))
	for _, c := range cfg.PaletteRGBA() {
		palette = append(palette, math.Vec4FromRGBA(c.R, c.G, c.B, c.A))
	}
	r := cfg.Scene.UnitRadius
	state.width, state.height = g.ApplicationConfig.StartWidth, g.ApplicationConfig.StartHeight
	state.scene.SpawnUnits(cfg.Scene.Units, math.NewRandom(cfg.Scene.Seed), palette,
		mgl32.Vec2{r, r},
		mgl32.Vec2{float32(state.width) - r, float32(state.height) - r},
	)

	// a row of pillars across the middle of the screen
	pillar := mgl32.Vec4{0.35, 0.35, 0.4, 1}
	for i := 1; i <= 3; i++ {
		x := float32(state.width) * float32(i) / 4
		state.scene.SpawnObstacle(mgl32.Vec2{x, float32(state.height) / 2}, 2*r, pillar)
	}

	core.LogInfo("testbed ready: %d units, left drag to select, right click to move", cfg.Scene.Units)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	g.state().scene.Update(float32(deltaTime), scene.PollInput())
	return nil
}

func (g *TestGame) Render(packet *metadata.RenderPacket, deltaTime float64) error {
	state := g.state()
	state.scene.BuildPacket(packet, state.width, state.height, g.SystemManager.GeometrySystem.GetQuad())
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width, state.height = width, height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("TestGame Shutdown fn....")
	return nil
}

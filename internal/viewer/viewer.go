// Package viewer implements the interactive terrain viewer loop: input,
// character movement, tile updates and rendering.
package viewer

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/terragrid/internal/config"
	"github.com/Faultbox/terragrid/internal/engine/camera"
	"github.com/Faultbox/terragrid/internal/engine/input"
	"github.com/Faultbox/terragrid/internal/engine/renderer"
	"github.com/Faultbox/terragrid/internal/engine/window"
	"github.com/Faultbox/terragrid/internal/logger"
	"github.com/Faultbox/terragrid/internal/physics"
	"github.com/Faultbox/terragrid/internal/terrain"
	"github.com/Faultbox/terragrid/internal/worldgen"
	"github.com/Faultbox/terragrid/pkg/math"
)

// Viewer is the main viewer instance.
type Viewer struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	geometry  *terrain.Geometry
	tiles     *terrain.TileGrid
	camera    *camera.FlyCamera
	character *physics.CharacterState
	movement  physics.MovementState
}

// New creates a new viewer instance. The terrain comes from the
// configured heightmap image, or is generated from the seed when no
// image is configured.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{config: cfg}

	grid, err := loadGrid(cfg.Terrain)
	if err != nil {
		return nil, err
	}
	v.geometry = terrain.NewGeometry(grid)

	v.tiles, err = terrain.NewTileGrid(v.geometry, terrain.TileGridConfig{
		TileSize:      cfg.Terrain.TileSize,
		DistanceScale: cfg.Terrain.LODDistanceScale,
	})
	if err != nil {
		return nil, fmt.Errorf("tile grid: %w", err)
	}

	v.window, err = window.New(window.Config{
		Title:      "terragrid",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after window, since the OpenGL context must exist.
	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.camera = camera.NewFlyCamera()

	// Drop the character in the middle of the terrain.
	start := startLocation(grid)
	if y, err := v.geometry.HeightAt(start.X, start.Z); err == nil {
		start.Y = y
	}
	v.character = physics.NewCharacterState(start,
		cfg.Character.MaxSpeed,
		cfg.Character.Friction,
		cfg.Character.MaxJump,
		cfg.Character.Gravity)
	v.camera.Loc = start

	v.window.CaptureMouse(true)

	logger.Info("viewer initialized",
		zap.Int("terrain_width", grid.Width()),
		zap.Int("terrain_rows", grid.Rows()),
		zap.Int("tile_size", cfg.Terrain.TileSize),
	)
	return v, nil
}

// loadGrid builds the height grid from the configured source.
func loadGrid(cfg config.TerrainConfig) (*terrain.Grid, error) {
	if cfg.HeightmapPath == "" {
		logger.Info("generating terrain", zap.Int64("seed", cfg.Seed))
		return worldgen.NewGenerator(cfg.Seed).Generate(
			cfg.Width, cfg.Rows,
			cfg.MinHeight, cfg.MaxHeight,
			cfg.Scale, cfg.OffsetX, cfg.OffsetZ)
	}

	logger.Info("loading heightmap", zap.String("path", cfg.HeightmapPath))
	f, err := os.Open(cfg.HeightmapPath)
	if err != nil {
		return nil, fmt.Errorf("heightmap: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("heightmap %s: %w", cfg.HeightmapPath, err)
	}
	return terrain.GridFromImage(img, cfg.MinHeight, cfg.MaxHeight,
		cfg.Scale, cfg.OffsetX, cfg.OffsetZ)
}

func startLocation(grid *terrain.Grid) math.Vec3 {
	offX, offZ := grid.Offset()
	return math.Vec3{
		X: offX + float32(grid.Width()-1)*grid.Scale()/2,
		Z: offZ + float32(grid.Rows()-1)*terrain.RowSpacing*grid.Scale()/2,
	}
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		// Advance the character along the camera heading and keep the
		// camera glued to it.
		v.character.Step(v.camera.Forward(), &v.movement, v.geometry)
		v.camera.Loc = v.character.Loc()

		if err := v.updateTiles(); err != nil {
			return err
		}

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(event.Width, event.Height)

	case input.EventMouseLook:
		v.camera.HandleMouse(float32(event.DeltaX), float32(event.DeltaY))

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_W:
			v.movement.Forward = true
		case sdl.SCANCODE_S:
			v.movement.Backward = true
		case sdl.SCANCODE_A:
			v.movement.Left = true
		case sdl.SCANCODE_D:
			v.movement.Right = true
		case sdl.SCANCODE_SPACE:
			v.movement.Jumping = true
		}

	case input.EventKeyUp:
		switch event.Key {
		case sdl.SCANCODE_W:
			v.movement.Forward = false
		case sdl.SCANCODE_S:
			v.movement.Backward = false
		case sdl.SCANCODE_A:
			v.movement.Left = false
		case sdl.SCANCODE_D:
			v.movement.Right = false
		case sdl.SCANCODE_SPACE:
			v.movement.ReleaseJump()
		}
	}
}

// updateTiles re-selects tile detail for the current camera position. A
// deferred regeneration is logged and retried next frame; anything else
// stops the viewer.
func (v *Viewer) updateTiles() error {
	rebuilt, err := v.tiles.Update(v.camera.Eye())
	if err != nil {
		if errors.Is(err, terrain.ErrRegenerationDeferred) {
			logger.Warn("tile regeneration deferred", zap.Error(err))
			return nil
		}
		return fmt.Errorf("tile update: %w", err)
	}
	if rebuilt > 0 {
		logger.Debug("tiles rebuilt", zap.Int("count", rebuilt))
	}
	return nil
}

func (v *Viewer) render() {
	v.renderer.Begin()
	v.renderer.Draw(v.tiles, renderer.RenderState{
		View:       v.camera.ViewMatrix(),
		Projection: perspective(v.config.Graphics.FOV, v.renderer.Aspect()),
		LightDir:   math.Vec3{X: -1, Y: 0.4, Z: 0.9},
		Material: renderer.Material{
			Ambient:  math.Vec3{X: 0.05, Y: 0.09, Z: 0.04},
			Diffuse:  math.Vec3{X: 0.32, Y: 0.52, Z: 0.26},
			Specular: math.Vec3{X: 0.05, Y: 0.05, Z: 0.05},
		},
	})
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// perspective converts the configured field of view in degrees into the
// projection matrix. The far plane is generous so distant low-detail
// tiles never clip out.
func perspective(fovDegrees, aspect float32) math.Mat4 {
	return math.Perspective(fovDegrees*math32.Pi/180, aspect, 0.1, 1048576)
}

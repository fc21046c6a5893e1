// Seed preview tool - interactive view of the initial conditions with sliders.
//
// Usage: go run ./cmd/seedpreview [-config file.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/convect/config"
	"github.com/pthm-cable/convect/fluid"
	"github.com/pthm-cable/convect/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

var (
	velocityPresets = []fluid.VelocityPreset{fluid.VelocityZero, fluid.VelocitySwirl, fluid.VelocityPlank}
	obstaclePresets = []fluid.ObstaclePreset{fluid.ObstaclesWalls, fluid.ObstaclesWallsDiscs, fluid.ObstaclesOpen}
)

// preview owns the solver rebuilt whenever the seed changes.
type preview struct {
	base   fluid.Params
	seed   fluid.SeedParams
	solver *fluid.Solver
	pixels []color.RGBA
	view   renderer.View
}

func (p *preview) rebuild() error {
	params := p.base
	params.Seed = p.seed
	sv, err := fluid.New(params)
	if err != nil {
		return err
	}
	if p.solver != nil {
		p.solver.Close()
	}
	p.solver = sv
	return nil
}

func (p *preview) upload(tex rl.Texture2D) {
	s := p.solver
	renderer.Colorize(p.pixels, p.view, s.Velocity(), s.Dye(), s.Pressure(), s.Heat(), s.Obstacles(), renderer.DefaultScales())
	rl.UpdateTexture(tex, p.pixels)
}

func (p *preview) yaml() string {
	return fmt.Sprintf(`seed:
  noise_zoom: %.2f
  noise_seed: %d
  velocity_preset: %s
  obstacle_preset: %s`,
		p.seed.NoiseZoom, p.seed.NoiseSeed, p.seed.Velocity, p.seed.Obstacles)
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	base, err := cfg.SolverParams()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	base.Width, base.Height = gridSize, gridSize

	p := &preview{
		base:   base,
		seed:   base.Seed,
		pixels: make([]color.RGBA, gridSize*gridSize),
		view:   renderer.ViewComposite,
	}
	if err := p.rebuild(); err != nil {
		log.Fatalf("failed to build solver: %v", err)
	}
	defer func() { p.solver.Close() }()

	rl.InitWindow(windowWidth, windowHeight, "Seed Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	running := false
	needsUpload := true

	for !rl.WindowShouldClose() {
		if running {
			p.solver.Step()
			needsUpload = true
		}
		if needsUpload {
			p.upload(texture)
			needsUpload = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("View: %s  Frame: %d  Fluid cells: %d",
			p.view, p.solver.Frame(), p.solver.FluidCells()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("KE: %.4f  Max speed: %.3f",
			p.solver.KineticEnergy(), p.solver.MaxSpeed()), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Initial Conditions", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		seedChanged := false

		rl.DrawText("Noise zoom (dye frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newZoom := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.5", "16",
			p.seed.NoiseZoom, 0.5, 16,
		)
		rl.DrawText(fmt.Sprintf("%.2f", p.seed.NoiseZoom), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newZoom != p.seed.NoiseZoom {
			p.seed.NoiseZoom = newZoom
			seedChanged = true
		}
		panelY += 35

		rl.DrawText("Noise seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(p.seed.NoiseSeed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", p.seed.NoiseSeed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != p.seed.NoiseSeed {
			p.seed.NoiseSeed = int64(newSeed)
			seedChanged = true
		}
		panelY += 45

		rl.DrawText("Velocity preset", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		for i, vp := range velocityPresets {
			r := rl.Rectangle{X: panelX + float32(i)*130, Y: panelY, Width: 120, Height: 30}
			if gui.Button(r, toggleText(vp == p.seed.Velocity, "["+string(vp)+"]", string(vp))) && vp != p.seed.Velocity {
				p.seed.Velocity = vp
				seedChanged = true
			}
		}
		panelY += 45

		rl.DrawText("Obstacle preset", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		for i, op := range obstaclePresets {
			r := rl.Rectangle{X: panelX + float32(i)*130, Y: panelY, Width: 120, Height: 30}
			if gui.Button(r, toggleText(op == p.seed.Obstacles, "["+string(op)+"]", string(op))) && op != p.seed.Obstacles {
				p.seed.Obstacles = op
				seedChanged = true
			}
		}
		panelY += 45

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(running, "Stop", "Run")) {
			running = !running
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Next View") {
			p.view = p.view.Next()
			needsUpload = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			p.seed.NoiseSeed = int64(rl.GetRandomValue(0, 99999))
			seedChanged = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			p.seed = base.Seed
			running = false
			seedChanged = true
		}
		panelY += 55

		if seedChanged {
			if err := p.rebuild(); err != nil {
				log.Printf("rebuild failed: %v", err)
			}
			needsUpload = true
		}

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		text := p.yaml()
		rl.DrawText(text, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

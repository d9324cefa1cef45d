// Height map preview tool - interactive diamond-square view with sliders.
//
// Usage: go run ./cmd/preview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/heightmap/camera"
	"github.com/pthm-cable/heightmap/config"
	"github.com/pthm-cable/heightmap/export"
	"github.com/pthm-cable/heightmap/heightmap"
	"github.com/pthm-cable/heightmap/telemetry"
)

const (
	previewSize = 640
	previewX    = 10
	previewY    = 10
)

// PreviewParams holds the generator parameters driven by the sliders.
type PreviewParams struct {
	Factor       int
	Offset       float32
	Seed         uint32
	Perturbation heightmap.Perturbation
	Palette      string
}

func defaultParams(cfg *config.Config) PreviewParams {
	return PreviewParams{
		Factor:       max(min(cfg.Generator.Factor, cfg.Preview.TextureFactor), heightmap.MinFactor),
		Offset:       float32(cfg.Generator.Offset),
		Seed:         uint32(cfg.Generator.Seed),
		Perturbation: cfg.Derived.Perturbation,
		Palette:      cfg.Output.Palette,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	windowWidth := int32(cfg.Preview.WindowWidth)
	windowHeight := int32(cfg.Preview.WindowHeight)
	panelWidth := float32(windowWidth) - previewSize - 30

	rl.InitWindow(windowWidth, windowHeight, "Height Map Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Preview.TargetFPS))

	params := defaultParams(cfg)
	maxFactor := max(cfg.Preview.TextureFactor, heightmap.MinFactor)

	g, err := heightmap.New(params.Factor, params.Offset, uint64(params.Seed))
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	var texture rl.Texture2D
	var cam *camera.Camera
	var stats telemetry.MapStats
	textureSide := 0
	needsRegen := true
	viewRect := rl.Rectangle{X: previewX, Y: previewY, Width: previewSize, Height: previewSize}

	for !rl.WindowShouldClose() {
		if needsRegen {
			g.SetPerturbation(params.Perturbation)
			if err := g.SetOffset(params.Offset); err != nil {
				slog.Warn("offset rejected", "offset", params.Offset, "error", err)
			}
			g.SetSeed(uint64(params.Seed))
			if g.Factor() != params.Factor {
				g, _ = heightmap.New(params.Factor, g.Offset(), g.Seed())
				g.SetPerturbation(params.Perturbation)
			}
			g.Build()

			side := g.Side()
			if side != textureSide {
				if textureSide != 0 {
					rl.UnloadTexture(texture)
				}
				img := rl.GenImageColor(side, side, rl.Black)
				texture = rl.LoadTextureFromImage(img)
				rl.UnloadImage(img)
				if cam == nil {
					cam = camera.New(previewSize, previewSize, side, 1)
				} else {
					cam.SetMap(side)
				}
				textureSide = side
			}

			grid := g.Map()
			stats = telemetry.ComputeMapStats(grid, side)
			updateTexture(texture, export.Normalize(grid), params.Palette)
			needsRegen = false
		}

		// Camera input inside the preview area
		mouse := rl.GetMousePosition()
		overPreview := rl.CheckCollisionPointRec(mouse, viewRect)
		if overPreview {
			if rl.IsMouseButtonDown(rl.MouseLeftButton) {
				d := rl.GetMouseDelta()
				cam.Pan(-d.X, -d.Y)
			}
			if wheel := rl.GetMouseWheelMove(); wheel != 0 {
				if wheel > 0 {
					cam.ZoomBy(1.1)
				} else {
					cam.ZoomBy(1 / 1.1)
				}
			}
		}
		if rl.IsKeyPressed(rl.KeyR) {
			cam.Reset()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw every visible copy of the tile
		rl.BeginScissorMode(previewX, previewY, previewSize, previewSize)
		tileW := cam.WorldW * cam.Zoom
		tileH := cam.WorldH * cam.Zoom
		for _, o := range cam.TileOrigins() {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{X: 0, Y: 0, Width: float32(textureSide), Height: float32(textureSide)},
				rl.Rectangle{X: previewX + o.X, Y: previewY + o.Y, Width: tileW, Height: tileH},
				rl.Vector2{X: 0, Y: 0},
				0,
				rl.White,
			)
		}
		rl.EndScissorMode()
		rl.DrawRectangleLines(previewX, previewY, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		statsY := int32(previewY + previewSize + 15)
		rl.DrawText(fmt.Sprintf("Side: %d  Min: %.3f  Max: %.3f  Mean: %.3f  Rough: %.4f",
			textureSide, stats.Min, stats.Max, stats.Mean, stats.Roughness), 15, statsY, 16, rl.DarkGray)
		if overPreview {
			x, y := cam.ScreenToCell(mouse.X-previewX, mouse.Y-previewY)
			rl.DrawText(fmt.Sprintf("Cell (%d, %d): %.4f  Zoom: %.2f", x, y, g.ValueAt(x, y), cam.Zoom),
				15, statsY+20, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewX + previewSize + 10)
		panelY := float32(10)

		rl.DrawText("Diamond-Square", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Factor slider
		rl.DrawText("Factor (side = 2^factor + 1)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newFactor := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			fmt.Sprint(heightmap.MinFactor), fmt.Sprint(maxFactor),
			float32(params.Factor), float32(heightmap.MinFactor), float32(maxFactor),
		)
		rl.DrawText(fmt.Sprintf("%d", params.Factor), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if int(newFactor) != params.Factor {
			params.Factor = int(newFactor)
			needsRegen = true
		}
		panelY += 35

		// Offset slider
		rl.DrawText("Offset (higher = flatter)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOffset := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"0.01", "10",
			params.Offset, 0.01, 10,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.Offset), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if newOffset != params.Offset {
			params.Offset = newOffset
			needsRegen = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if uint32(newSeed) != params.Seed {
			params.Seed = uint32(newSeed)
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, params.Perturbation.String()) {
			params.Perturbation = 1 - params.Perturbation
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, params.Palette) {
			params.Palette = toggleText(params.Palette == "gray", "terrain", "gray")
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = uint32(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			cam.Reset()
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := paramsYAML(params)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Drag to pan, wheel to zoom, R to recenter", int32(panelX), windowHeight-46, 12, rl.LightGray)
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}

	if textureSide != 0 {
		rl.UnloadTexture(texture)
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// paramsYAML renders the generator section for pasting into a config file.
func paramsYAML(p PreviewParams) string {
	return fmt.Sprintf(`generator:
  factor: %d
  offset: %.3f
  seed: %d
  perturbation: %s`,
		p.Factor, p.Offset, p.Seed, p.Perturbation)
}

// updateTexture updates the GPU texture from normalized heights.
func updateTexture(texture rl.Texture2D, values []float64, paletteName string) {
	palette, err := export.ParsePalette(paletteName)
	if err != nil {
		palette = export.Gray
	}
	pixels := make([]color.RGBA, len(values))
	for i, v := range values {
		pixels[i] = palette(v)
	}
	rl.UpdateTexture(texture, pixels)
}

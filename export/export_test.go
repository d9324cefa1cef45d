package export

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/pthm-cable/heightmap/heightmap"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]float32{2, 4, 6, 3})
	want := []float64{0, 0.5, 1, 0.25}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Normalize[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	for i, v := range Normalize([]float64{7, 7, 7}) {
		if v != 0 {
			t.Errorf("flat grid value %d = %v, want 0", i, v)
		}
	}

	if n := len(Normalize([]float64{})); n != 0 {
		t.Errorf("empty grid gave %d values", n)
	}
}

func TestTile(t *testing.T) {
	grid := []int{1, 2, 3, 4}

	out, side := Tile(grid, 2, 2)
	if side != 4 {
		t.Fatalf("side = %d, want 4", side)
	}
	want := []int{
		1, 2, 1, 2,
		3, 4, 3, 4,
		1, 2, 1, 2,
		3, 4, 3, 4,
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}

	same, side := Tile(grid, 2, 1)
	if side != 2 || len(same) != 4 {
		t.Errorf("Tile n=1 gave side %d len %d", side, len(same))
	}
	same[0] = 99
	if grid[0] == 99 {
		t.Error("Tile n=1 returned an alias")
	}
}

func TestPalettes(t *testing.T) {
	if c := Gray(0); c.R != 0 || c.A != 255 {
		t.Errorf("Gray(0) = %v", c)
	}
	if c := Gray(1); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("Gray(1) = %v", c)
	}
	if c := Gray(2); c.R != 255 {
		t.Errorf("Gray(2) should clamp, got %v", c)
	}

	// Low terrain is water (blue dominant), the peak is near white
	if c := Terrain(0.1); c.B <= c.R {
		t.Errorf("Terrain(0.1) = %v, want blue dominant", c)
	}
	if c := Terrain(1); c.R < 250 || c.G < 250 || c.B < 250 {
		t.Errorf("Terrain(1) = %v, want near white", c)
	}

	if _, err := ParsePalette("terrain"); err != nil {
		t.Errorf("ParsePalette(terrain): %v", err)
	}
	if _, err := ParsePalette("neon"); err == nil {
		t.Error("expected error for unknown palette")
	}
}

func TestEncodersRoundTrip(t *testing.T) {
	g, err := heightmap.New(3, 0.5, 1234)
	if err != nil {
		t.Fatal(err)
	}
	g.Build()
	values := Normalize(g.Map())
	side := g.Side()

	gray := Gray16Image(values, side)
	rgba := ColorImage(values, side, Terrain)

	tests := []struct {
		name   string
		img    image.Image
		encode func(w *bytes.Buffer) error
		decode func(b *bytes.Buffer) (image.Image, error)
	}{
		{"png", rgba,
			func(w *bytes.Buffer) error { return EncodePNG(w, rgba) },
			func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{"tiff", gray,
			func(w *bytes.Buffer) error { return EncodeTIFF(w, gray) },
			func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) }},
		{"bmp", rgba,
			func(w *bytes.Buffer) error { return EncodeBMP(w, rgba) },
			func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			img, err := tt.decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != side || img.Bounds().Dy() != side {
				t.Errorf("bounds = %v, want %dx%d", img.Bounds(), side, side)
			}
		})
	}
}

func TestGray16Extremes(t *testing.T) {
	img := Gray16Image([]float64{0, 1, 0.5, -1}, 2)
	if v := img.Gray16At(0, 0).Y; v != 0 {
		t.Errorf("min = %d, want 0", v)
	}
	if v := img.Gray16At(1, 0).Y; v != 0xffff {
		t.Errorf("max = %d, want 65535", v)
	}
	if v := img.Gray16At(1, 1).Y; v != 0 {
		t.Errorf("negative clamps to %d, want 0", v)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	img := ColorImage([]float64{0, 0.5, 0.5, 1}, 2, Gray)
	if err := WriteFile(path, img, EncodePNG); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("file missing or empty: %v", err)
	}

	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "map.png"), img, EncodePNG); err == nil {
		t.Error("expected error for missing directory")
	}
}

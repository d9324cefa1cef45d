// Package export converts height maps into images and writes them to disk.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/pthm-cable/heightmap/heightmap"
)

// Normalize rescales a grid to [0, 1]. A flat grid maps to all zeros.
func Normalize[T heightmap.Float](grid []T) []float64 {
	out := make([]float64, len(grid))
	if len(grid) == 0 {
		return out
	}

	lo, hi := float64(grid[0]), float64(grid[0])
	for _, v := range grid {
		f := float64(v)
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}

	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range grid {
		out[i] = (float64(v) - lo) / span
	}
	return out
}

// Tile repeats a row-major side*side grid n times in each direction.
// Returns the new grid and its side.
func Tile[T any](grid []T, side, n int) ([]T, int) {
	if n <= 1 {
		out := make([]T, len(grid))
		copy(out, grid)
		return out, side
	}

	outSide := side * n
	out := make([]T, outSide*outSide)
	for y := 0; y < outSide; y++ {
		src := grid[(y%side)*side : (y%side)*side+side]
		for tx := 0; tx < n; tx++ {
			copy(out[y*outSide+tx*side:], src)
		}
	}
	return out, outSide
}

// ColorImage renders normalised values through a palette.
func ColorImage(values []float64, side int, palette Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for i, v := range values {
		img.SetRGBA(i%side, i/side, palette(v))
	}
	return img
}

// Gray16Image renders normalised values as 16-bit grayscale.
func Gray16Image(values []float64, side int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, side, side))
	for i, v := range values {
		img.SetGray16(i%side, i/side, color.Gray16{Y: uint16(clamp01(v)*0xffff + 0.5)})
	}
	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeTIFF writes img as deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// EncodeBMP writes img as BMP.
func EncodeBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// WriteFile creates path and encodes img into it.
func WriteFile(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

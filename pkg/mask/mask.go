// Package mask builds occupancy grids from overlay images.
// A pixel is foreground when its luminance (0-1 range) is above a threshold.
package mask

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"overlayregions/internal/models"
)

// DefaultThreshold treats any non-black pixel as foreground
const DefaultThreshold = 0.0

// FromImage thresholds the luminance of img into a grid. The grid origin is
// the image's Bounds().Min.
func FromImage(img image.Image, threshold float64) (*models.BoolGrid, error) {
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %.3f outside [0, 1)", threshold)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	grid := models.NewBoolGrid(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			if float64(g.Y)/65535.0 > threshold {
				grid.Set(x, y, true)
			}
		}
	}

	return grid, nil
}

// Load decodes a JPEG or PNG overlay from disk and thresholds it
func Load(path string, threshold float64) (*models.BoolGrid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overlay: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode overlay %s: %w", path, err)
	}

	return FromImage(img, threshold)
}

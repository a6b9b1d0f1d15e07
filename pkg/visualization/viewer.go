package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"overlayregions/internal/models"
	"overlayregions/pkg/regions"
)

var (
	foregroundColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	backgroundColor = color.RGBA{A: 255}

	// outlinePalette cycles across regions so neighbours stay distinguishable
	outlinePalette = []color.RGBA{
		{R: 230, G: 60, B: 60, A: 255},
		{R: 60, G: 200, B: 80, A: 255},
		{R: 70, G: 110, B: 240, A: 255},
		{R: 240, G: 200, B: 40, A: 255},
		{R: 200, G: 70, B: 220, A: 255},
		{R: 40, G: 210, B: 220, A: 255},
	}
)

// Viewer renders an occupancy grid together with the regions found on it
type Viewer struct {
	// grid is the occupancy source the regions were computed from
	grid models.OccupancyGrid

	// regions holds the rectangles to draw, in discovery order
	regions []models.Region

	// scale is the number of output pixels per grid pixel along each axis
	scale int
}

// NewViewer creates a viewer. Scales below 1 are treated as 1.
func NewViewer(grid models.OccupancyGrid, found []models.Region, scale int) *Viewer {
	if scale < 1 {
		scale = 1
	}
	return &Viewer{
		grid:    grid,
		regions: found,
		scale:   scale,
	}
}

// Render draws the foreground in grey and each region's outline in a
// palette colour
func (v *Viewer) Render() *image.RGBA {
	width, height := v.grid.Width()*v.scale, v.grid.Height()*v.scale
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < v.grid.Height(); y++ {
		for x := 0; x < v.grid.Width(); x++ {
			c := backgroundColor
			if v.grid.Contains(x, y) {
				c = foregroundColor
			}
			v.fillCell(img, x, y, c)
		}
	}

	for i, r := range v.regions {
		v.drawOutline(img, r, outlinePalette[i%len(outlinePalette)])
	}

	return img
}

func (v *Viewer) fillCell(img *image.RGBA, x, y int, c color.RGBA) {
	for dy := 0; dy < v.scale; dy++ {
		for dx := 0; dx < v.scale; dx++ {
			img.SetRGBA(x*v.scale+dx, y*v.scale+dy, c)
		}
	}
}

// drawOutline traces the outermost output pixels of r
func (v *Viewer) drawOutline(img *image.RGBA, r models.Region, c color.RGBA) {
	rect := r.Rect()
	rect = image.Rect(rect.Min.X*v.scale, rect.Min.Y*v.scale, rect.Max.X*v.scale, rect.Max.Y*v.scale).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.SetRGBA(x, rect.Min.Y, c)
		img.SetRGBA(x, rect.Max.Y-1, c)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.SetRGBA(rect.Min.X, y, c)
		img.SetRGBA(rect.Max.X-1, y, c)
	}
}

// ExtractRegion returns the mask content of region index as an 8-bit image,
// the way it would be uploaded as a texture. With padToPowerOfTwo the image
// is enlarged to power-of-two sides and the extra texels stay zero.
func (v *Viewer) ExtractRegion(index int, padToPowerOfTwo bool) (*image.Gray, error) {
	if index < 0 || index >= len(v.regions) {
		return nil, fmt.Errorf("region index %d out of range [0, %d)", index, len(v.regions))
	}

	r := v.regions[index]
	if r.Empty() {
		return nil, fmt.Errorf("region %d is empty", index)
	}

	width, height := r.Width, r.Height
	if padToPowerOfTwo {
		width, height = regions.NextPowerOfTwo(width), regions.NextPowerOfTwo(height)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if v.grid.Contains(r.X+x, r.Y+y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return img, nil
}

// SaveImage writes img as PNG or JPEG depending on the file extension
func SaveImage(img image.Image, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported image extension %q (must be .png, .jpg or .jpeg)", ext)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if ext == ".png" {
		return png.Encode(file, img)
	}
	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveRegionSequence extracts every region and saves it as a PNG in outputDir
func (v *Viewer) SaveRegionSequence(outputDir string, padToPowerOfTwo bool) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for i := range v.regions {
		img, err := v.ExtractRegion(i, padToPowerOfTwo)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("region_%03d.png", i))
		if err := SaveImage(img, filename); err != nil {
			return fmt.Errorf("failed to save region %d: %w", i, err)
		}
	}

	return nil
}

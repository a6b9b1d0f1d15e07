package models

import (
	"fmt"
	"image"
)

// Region is an axis-aligned rectangle in grid coordinates bounding a cluster
// of foreground pixels
type Region struct {
	// X is the left-most column covered by the region
	X int

	// Y is the top-most row covered by the region
	Y int

	// Width is the number of columns covered
	Width int

	// Height is the number of rows covered
	Height int
}

// NewRegion creates a region from its origin and size
func NewRegion(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// RegionFromRect converts an image.Rectangle (exclusive Max) into a Region
func RegionFromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image.Rectangle with exclusive Max corner
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Right returns the first column past the region
func (r Region) Right() int { return r.X + r.Width }

// Bottom returns the first row past the region
func (r Region) Bottom() int { return r.Y + r.Height }

// Area returns the number of pixels covered by the region
func (r Region) Area() int { return r.Width * r.Height }

// Empty reports whether the region covers no pixels
func (r Region) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether pixel (x, y) lies inside the region
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Union returns the bounding box of both regions
func (r Region) Union(o Region) Region {
	return RegionFromRect(r.Rect().Union(o.Rect()))
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// OccupancyGrid is a read-only 2D boolean field. Contains reports whether
// pixel (x, y) is foreground; x is the column and y the row.
type OccupancyGrid interface {
	Width() int
	Height() int
	Contains(x, y int) bool
}

// BoolGrid is a 2D boolean field stored as a 1D array in row-major order.
// It is used both as an occupancy source and as the working mask of the
// region finder.
type BoolGrid struct {
	// data holds one entry per pixel, index = y*width + x
	data []bool

	width  int
	height int
}

// NewBoolGrid allocates an all-false grid. Negative dimensions are a
// programming error and panic.
func NewBoolGrid(width, height int) *BoolGrid {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("models: invalid grid dimensions %dx%d", width, height))
	}
	return &BoolGrid{
		data:   make([]bool, width*height),
		width:  width,
		height: height,
	}
}

// BoolGridFromSlice wraps row-major data as a grid. The slice is not copied.
func BoolGridFromSlice(width, height int, data []bool) (*BoolGrid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("grid data has %d entries, expected %d for %dx%d",
			len(data), width*height, width, height)
	}
	return &BoolGrid{data: data, width: width, height: height}, nil
}

// Width returns the number of columns
func (g *BoolGrid) Width() int { return g.width }

// Height returns the number of rows
func (g *BoolGrid) Height() int { return g.height }

// Bounds returns the grid extent as an image.Rectangle
func (g *BoolGrid) Bounds() image.Rectangle { return image.Rect(0, 0, g.width, g.height) }

// Index maps pixel (x, y) to its position in the row-major array
func (g *BoolGrid) Index(x, y int) int { return y*g.width + x }

// Point maps a row-major index back to pixel (x, y)
func (g *BoolGrid) Point(index int) (x, y int) {
	return index % g.width, index / g.width
}

// Contains reports whether (x, y) is set. Pixels outside the grid are unset.
func (g *BoolGrid) Contains(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return false
	}
	return g.data[g.Index(x, y)]
}

// Set assigns pixel (x, y). Writing outside the grid panics.
func (g *BoolGrid) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		panic(fmt.Sprintf("models: pixel (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
	g.data[g.Index(x, y)] = v
}

// Count returns the number of set pixels
func (g *BoolGrid) Count() int {
	n := 0
	for _, v := range g.data {
		if v {
			n++
		}
	}
	return n
}

// Reset clears every pixel
func (g *BoolGrid) Reset() {
	for i := range g.data {
		g.data[i] = false
	}
}

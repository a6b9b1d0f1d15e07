package regions

import (
	"math/bits"

	"gonum.org/v1/gonum/stat"

	"overlayregions/internal/models"
)

// NextPowerOfTwo returns the smallest power of two >= n. Values below 1
// round up to 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// TextureCost is the number of texels needed to store r in a texture whose
// sides are padded up to powers of two
func TextureCost(r models.Region) int {
	if r.Empty() {
		return 0
	}
	return NextPowerOfTwo(r.Width) * NextPowerOfTwo(r.Height)
}

// TotalTextureCost sums TextureCost over a region list
func TotalTextureCost(regions []models.Region) int {
	total := 0
	for _, r := range regions {
		total += TextureCost(r)
	}
	return total
}

// Summary describes how well a region list fits the grid it was computed on
type Summary struct {
	// Regions is the number of regions
	Regions int

	// Foreground is the number of foreground pixels in the grid
	Foreground int

	// CoveredArea is the summed area of all regions
	CoveredArea int

	// TextureCost is the summed power-of-two texture size
	TextureCost int

	// MeanFill and StdDevFill describe the per-region ratio of foreground
	// pixels to region area
	MeanFill   float64
	StdDevFill float64

	// Complete is true when every foreground pixel lies in some region
	Complete bool
}

// Summarize computes statistics for regions found on grid
func Summarize(grid models.OccupancyGrid, regions []models.Region) Summary {
	s := Summary{
		Regions:     len(regions),
		TextureCost: TotalTextureCost(regions),
		Complete:    true,
	}

	fills := make([]float64, 0, len(regions))
	for _, r := range regions {
		s.CoveredArea += r.Area()
		if r.Empty() {
			fills = append(fills, 0)
			continue
		}
		n := 0
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				if grid.Contains(x, y) {
					n++
				}
			}
		}
		fills = append(fills, float64(n)/float64(r.Area()))
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if !grid.Contains(x, y) {
				continue
			}
			s.Foreground++
			if s.Complete && !covered(regions, x, y) {
				s.Complete = false
			}
		}
	}

	switch len(fills) {
	case 0:
	case 1:
		s.MeanFill = fills[0]
	default:
		s.MeanFill, s.StdDevFill = stat.MeanStdDev(fills, nil)
	}

	return s
}

func covered(regions []models.Region, x, y int) bool {
	for _, r := range regions {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

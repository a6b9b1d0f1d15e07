// Package regions partitions the foreground of an occupancy grid into a small
// set of axis-aligned rectangles suitable for texture upload.
//
// Regions are found by growing a rectangle from each unclaimed foreground
// pixel (row-major order) until none of its four borders touches more
// unclaimed foreground, then merging it greedily into the first already-known region
// that is either close enough or, when requested, cheaper to store as one
// power-of-two texture than as two.
package regions

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"overlayregions/internal/models"
)

// DefaultCloseDistance is the distance below which two regions are always
// fused. Gaps of up to three empty pixels are bridged.
const DefaultCloseDistance = 4

// Options holds the tunable constants of the finder
type Options struct {
	// CloseDistance is the Chebyshev distance below which a newly grown
	// region is fused into an existing one
	CloseDistance int

	// Logger receives debug output about growth and merges. Nil disables it.
	Logger *zap.Logger
}

// DefaultOptions returns the options used when none are supplied
func DefaultOptions() Options {
	return Options{
		CloseDistance: DefaultCloseDistance,
		Logger:        zap.NewNop(),
	}
}

// Option customises a Finder
type Option func(*Options)

// WithCloseDistance overrides the proximity merge threshold
func WithCloseDistance(d int) Option {
	return func(o *Options) { o.CloseDistance = d }
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithOptions replaces all options at once
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// Finder computes the region partition of one occupancy grid. The grid is
// referenced, not copied, so each FindRegions call sees its current contents.
// A Finder must not be used from several goroutines at once.
type Finder struct {
	grid    models.OccupancyGrid
	opts    Options
	regions []models.Region
}

// NewFinder binds a finder to a read-only occupancy grid
func NewFinder(grid models.OccupancyGrid, opts ...Option) *Finder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Finder{grid: grid, opts: o}
}

// Options returns the options the finder was built with
func (f *Finder) Options() Options { return f.opts }

// Regions returns the result of the last FindRegions call, in discovery
// order. It is empty before the first call.
func (f *Finder) Regions() []models.Region {
	out := make([]models.Region, len(f.regions))
	copy(out, f.regions)
	return out
}

// FindRegions scans the grid and recomputes the region list from scratch.
// When optimizeForPowersOfTwo is set, regions are also fused whenever the
// combined power-of-two texture is no larger than the two separate ones.
func (f *Finder) FindRegions(optimizeForPowersOfTwo bool) {
	f.regions = f.scan(false)

	// Greedy power-of-two fusion is order dependent and can end up costlier
	// than leaving it off, so the cheaper of the two partitions is kept.
	if optimizeForPowersOfTwo {
		optimized := f.scan(true)
		if TotalTextureCost(optimized) <= TotalTextureCost(f.regions) {
			f.regions = optimized
		} else {
			f.opts.Logger.Debug("power-of-two fusion skipped",
				zap.Int("optimizedCost", TotalTextureCost(optimized)),
				zap.Int("plainCost", TotalTextureCost(f.regions)))
		}
	}

	f.opts.Logger.Debug("regions found",
		zap.Int("width", f.grid.Width()),
		zap.Int("height", f.grid.Height()),
		zap.Bool("powersOfTwo", optimizeForPowersOfTwo),
		zap.Int("count", len(f.regions)))
}

// scan runs one row-major grow and merge pass over the grid
func (f *Finder) scan(optimizeForPowersOfTwo bool) []models.Region {
	found := make([]models.Region, 0)

	width, height := f.grid.Width(), f.grid.Height()
	if width <= 0 || height <= 0 {
		return found
	}

	// The working mask lives for this pass only
	mask := models.NewBoolGrid(width, height)
	for i := 0; i < width*height; i++ {
		x, y := mask.Point(i)
		if mask.Contains(x, y) || !f.grid.Contains(x, y) {
			continue
		}

		r := removePadding(f.growRegion(mask, x, y))
		f.fillMaskForRegion(mask, r)
		found = f.addRegion(found, r, optimizeForPowersOfTwo)
	}

	return found
}

// growRegion expands a padded rectangle around the seed pixel. A side moves
// out by one pixel when its padding strip holds unclaimed foreground and the
// row or column it adds to the inner rectangle holds no claimed pixel. The
// padding ring may stick out of the grid; strips are clipped before being
// tested. Unclaimed foreground left in the ring is picked up by a later seed.
func (f *Finder) growRegion(mask *models.BoolGrid, seedX, seedY int) image.Rectangle {
	bounds := mask.Bounds()
	p := addPadding(image.Rect(seedX, seedY, seedX+1, seedY+1))

	for {
		grown := false

		// Each side is tested against the padding strip (corners included)
		// and the row or column the inner rectangle would gain.
		if f.canExtend(mask,
			image.Rect(p.Min.X, p.Min.Y, p.Min.X+1, p.Max.Y).Intersect(bounds),
			image.Rect(p.Min.X, p.Min.Y+1, p.Min.X+1, p.Max.Y-1).Intersect(bounds)) {
			p.Min.X--
			grown = true
		}
		if f.canExtend(mask,
			image.Rect(p.Max.X-1, p.Min.Y, p.Max.X, p.Max.Y).Intersect(bounds),
			image.Rect(p.Max.X-1, p.Min.Y+1, p.Max.X, p.Max.Y-1).Intersect(bounds)) {
			p.Max.X++
			grown = true
		}
		if f.canExtend(mask,
			image.Rect(p.Min.X, p.Min.Y, p.Max.X, p.Min.Y+1).Intersect(bounds),
			image.Rect(p.Min.X+1, p.Min.Y, p.Max.X-1, p.Min.Y+1).Intersect(bounds)) {
			p.Min.Y--
			grown = true
		}
		if f.canExtend(mask,
			image.Rect(p.Min.X, p.Max.Y-1, p.Max.X, p.Max.Y).Intersect(bounds),
			image.Rect(p.Min.X+1, p.Max.Y-1, p.Max.X-1, p.Max.Y).Intersect(bounds)) {
			p.Max.Y++
			grown = true
		}

		if !grown {
			return p
		}
	}
}

// canExtend reports whether strip holds unclaimed foreground and added holds
// no claimed pixel. Both must already be clipped to the grid.
func (f *Finder) canExtend(mask *models.BoolGrid, strip, added image.Rectangle) bool {
	return f.hasUnclaimedForeground(mask, strip) && !hasClaimed(mask, added)
}

// hasUnclaimedForeground reports whether any pixel of r is foreground and not
// yet claimed. An empty r has none.
func (f *Finder) hasUnclaimedForeground(mask *models.BoolGrid, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if f.grid.Contains(x, y) && !mask.Contains(x, y) {
				return true
			}
		}
	}
	return false
}

func hasClaimed(mask *models.BoolGrid, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if mask.Contains(x, y) {
				return true
			}
		}
	}
	return false
}

// fillMaskForRegion claims every grid pixel inside r, foreground or not
func (f *Finder) fillMaskForRegion(mask *models.BoolGrid, r image.Rectangle) {
	if mask.Width() != f.grid.Width() || mask.Height() != f.grid.Height() {
		panic(fmt.Sprintf("regions: mask is %dx%d but grid is %dx%d",
			mask.Width(), mask.Height(), f.grid.Width(), f.grid.Height()))
	}

	r = r.Intersect(mask.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.Set(x, y, true)
		}
	}
}

// addRegion fuses r into the first region of found that qualifies, or
// appends it. Regions left nested inside another after a fusion are dropped.
func (f *Finder) addRegion(found []models.Region, r image.Rectangle, optimizeForPowersOfTwo bool) []models.Region {
	candidate := models.RegionFromRect(r)

	for i, existing := range found {
		distance := DistanceBetweenRegions(candidate, existing)
		merged := existing.Union(candidate)

		switch {
		case distance < f.opts.CloseDistance:
			f.opts.Logger.Debug("fusing close regions",
				zap.Stringer("existing", existing),
				zap.Stringer("candidate", candidate),
				zap.Int("distance", distance))
		case optimizeForPowersOfTwo && TextureCost(merged) <= TextureCost(existing)+TextureCost(candidate):
			f.opts.Logger.Debug("fusing regions to save texture memory",
				zap.Stringer("existing", existing),
				zap.Stringer("candidate", candidate),
				zap.Int("mergedCost", TextureCost(merged)))
		default:
			continue
		}

		found[i] = merged
		return dropNested(found)
	}

	return append(found, candidate)
}

// dropNested removes every region lying entirely inside another one,
// preserving order. Of two identical regions the first is kept.
func dropNested(found []models.Region) []models.Region {
	out := make([]models.Region, 0, len(found))
	for i, r := range found {
		nested := false
		for j, o := range found {
			if i != j && r.Rect().In(o.Rect()) && (r != o || j < i) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, r)
		}
	}
	return out
}

// addPadding grows r by one pixel on every side
func addPadding(r image.Rectangle) image.Rectangle {
	return r.Inset(-1)
}

// removePadding undoes addPadding
func removePadding(r image.Rectangle) image.Rectangle {
	return r.Inset(1)
}

// DistanceBetweenRegions returns the Chebyshev distance between two
// rectangles: the larger of the horizontal and vertical gaps, where
// overlapping or touching rectangles have a gap of 0.
func DistanceBetweenRegions(a, b models.Region) int {
	dx := max(0, b.X-a.Right(), a.X-b.Right())
	dy := max(0, b.Y-a.Bottom(), a.Y-b.Bottom())
	return max(dx, dy)
}

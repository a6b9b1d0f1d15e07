package models

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionGeometry(t *testing.T) {
	r := NewRegion(2, 3, 4, 5)

	assert.Equal(t, 6, r.Right())
	assert.Equal(t, 8, r.Bottom())
	assert.Equal(t, 20, r.Area())
	assert.False(t, r.Empty())
	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 7))
	assert.False(t, r.Contains(6, 7))
	assert.False(t, r.Contains(5, 8))
	assert.Equal(t, "(2,3 4x5)", r.String())

	assert.Equal(t, image.Rect(2, 3, 6, 8), r.Rect())
	assert.Equal(t, r, RegionFromRect(r.Rect()))
	assert.True(t, Region{Width: 0, Height: 3}.Empty())
}

func TestRegionUnion(t *testing.T) {
	a := NewRegion(2, 2, 1, 1)
	b := NewRegion(5, 2, 1, 1)
	assert.Equal(t, NewRegion(2, 2, 4, 1), a.Union(b))
	assert.Equal(t, a.Union(b), b.Union(a))
	assert.Equal(t, a, a.Union(a))
}

func TestBoolGridIndexing(t *testing.T) {
	g := NewBoolGrid(7, 3)
	assert.Equal(t, 7, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, image.Rect(0, 0, 7, 3), g.Bounds())

	for i := 0; i < 21; i++ {
		x, y := g.Point(i)
		assert.Equal(t, i, g.Index(x, y))
		assert.Less(t, x, 7)
		assert.Less(t, y, 3)
	}

	x, y := g.Point(15)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
}

func TestBoolGridSetAndCount(t *testing.T) {
	g := NewBoolGrid(4, 4)
	g.Set(1, 2, true)
	g.Set(3, 3, true)

	assert.True(t, g.Contains(1, 2))
	assert.False(t, g.Contains(2, 1))
	assert.False(t, g.Contains(-1, 0))
	assert.False(t, g.Contains(4, 0))
	assert.Equal(t, 2, g.Count())

	g.Reset()
	assert.Zero(t, g.Count())

	assert.Panics(t, func() { g.Set(4, 0, true) })
	assert.Panics(t, func() { NewBoolGrid(-1, 2) })
}

func TestBoolGridFromSlice(t *testing.T) {
	g, err := BoolGridFromSlice(3, 2, []bool{false, true, false, false, false, true})
	require.NoError(t, err)
	assert.True(t, g.Contains(1, 0))
	assert.True(t, g.Contains(2, 1))
	assert.Equal(t, 2, g.Count())

	_, err = BoolGridFromSlice(3, 3, make([]bool, 6))
	assert.Error(t, err)

	_, err = BoolGridFromSlice(-1, 3, nil)
	assert.Error(t, err)
}

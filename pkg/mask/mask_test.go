package mask

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImage creates a grayscale test image with the specified dimensions and pattern
func createTestImage(width, height int, pattern func(x, y int) uint16) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: pattern(x, y)})
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	img := createTestImage(8, 4, func(x, y int) uint16 {
		switch {
		case x == 2 && y == 1:
			return 65535
		case x == 5 && y == 3:
			return 20000
		}
		return 0
	})

	grid, err := FromImage(img, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, 8, grid.Width())
	assert.Equal(t, 4, grid.Height())
	assert.Equal(t, 2, grid.Count())
	assert.True(t, grid.Contains(2, 1))
	assert.True(t, grid.Contains(5, 3))

	// A higher threshold drops the dim pixel
	grid, err = FromImage(img, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1, grid.Count())
	assert.False(t, grid.Contains(5, 3))
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 14, 23))
	img.SetGray(11, 22, color.Gray{Y: 255})

	grid, err := FromImage(img, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Width())
	assert.Equal(t, 3, grid.Height())
	assert.True(t, grid.Contains(1, 2))
}

func TestFromImageRejectsThreshold(t *testing.T) {
	img := createTestImage(2, 2, func(x, y int) uint16 { return 0 })
	_, err := FromImage(img, -0.1)
	assert.Error(t, err)
	_, err = FromImage(img, 1)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.png")
	img := createTestImage(6, 6, func(x, y int) uint16 {
		if x >= 2 && x < 4 && y >= 2 && y < 4 {
			return 65535
		}
		return 0
	})

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())

	grid, err := Load(path, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Count())
	assert.True(t, grid.Contains(3, 3))

	_, err = Load(filepath.Join(dir, "missing.png"), 0.5)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = Load(bad, 0.5)
	assert.Error(t, err)
}

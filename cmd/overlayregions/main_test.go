package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeMask saves a 16x4 PNG with two blobs on the first row
func writeMask(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 4))
	for x := 0; x <= 8; x++ {
		img.SetGray(x, 0, color.Gray{Y: 255})
	}
	img.SetGray(13, 0, color.Gray{Y: 255})
	img.SetGray(14, 0, color.Gray{Y: 255})

	path := filepath.Join(dir, "mask.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())
	return path
}

func TestRunPrintsRegions(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir)

	var out bytes.Buffer
	err := run([]string{
		"-input", input,
		"-config", filepath.Join(dir, "none.yaml"),
		"-output", filepath.Join(dir, "overlay.png"),
		"-regions-dir", filepath.Join(dir, "regions"),
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Regions (2):")
	assert.Contains(t, out.String(), "x=0 y=0 w=9 h=1")
	assert.Contains(t, out.String(), "x=13 y=0 w=2 h=1")
	assert.FileExists(t, filepath.Join(dir, "overlay.png"))
	assert.FileExists(t, filepath.Join(dir, "regions", "region_001.png"))
}

func TestRunPowersOfTwo(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir)

	var out bytes.Buffer
	err := run([]string{"-input", input, "-config", filepath.Join(dir, "none.yaml"), "-pow2"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Regions (1):")
	assert.Contains(t, out.String(), "x=0 y=0 w=15 h=1")
	assert.Contains(t, out.String(), "Texture cost: 16")
}

func TestRunUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	logPath := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"finder:\n  closeDistance: 5\nlog:\n  file: "+logPath+"\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-input", input, "-config", cfgPath}, &out))

	// Distance between the blobs is 4, below the configured 5
	assert.Contains(t, out.String(), "Regions (1):")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "region search completed")
}

func TestRunPowersOfTwoFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeMask(t, dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("finder:\n  optimizeForPowersOfTwo: true\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-input", input, "-config", cfgPath}, &out))
	assert.Contains(t, out.String(), "Regions (1):")

	out.Reset()
	require.NoError(t, run([]string{"-input", input, "-config", cfgPath, "-pow2=false"}, &out))
	assert.Contains(t, out.String(), "Regions (2):")
}

func TestRunWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")

	var out bytes.Buffer
	require.NoError(t, run([]string{"-write-config", path}, &out))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), path)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	assert.Error(t, run([]string{}, &out))
	assert.Error(t, run([]string{"-input", filepath.Join(dir, "missing.png"), "-config", filepath.Join(dir, "none.yaml")}, &out))

	input := writeMask(t, dir)
	assert.Error(t, run([]string{"-input", input, "-config", filepath.Join(dir, "none.yaml"), "-threshold", "2"}, &out))
}

// Copyright 2024 The mosaic-generator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mosaic

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	gray  = color.RGBA{100, 100, 100, 255}
)

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// splitImage returns an image with the left half set to left and the right
// half set to right.
func splitImage(width, height int, left, right color.RGBA) *image.RGBA {
	img := solidImage(width, height, left)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			img.SetRGBA(x, y, right)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, _, err := DecodeImageFile(path)
	require.NoError(t, err)
	return img
}

// newPoolDir creates a pool directory with the given png images.
func newPoolDir(t *testing.T, images map[string]image.Image) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "pool")
	require.NoError(t, os.Mkdir(dir, 0o700))
	for name, img := range images {
		writePNG(t, filepath.Join(dir, name), img)
	}
	return dir
}

// identityResizer returns images unchanged, it is used to control the exact
// tile content in tests.
type identityResizer struct{}

func (identityResizer) Resize(width, height uint, img image.Image) image.Image {
	return img
}

func requireSameRGBA(t *testing.T, expected, actual image.Image, area image.Rectangle) {
	t.Helper()
	eb := expected.Bounds()
	for y := 0; y < area.Dy(); y++ {
		for x := 0; x < area.Dx(); x++ {
			e := color.RGBAModel.Convert(expected.At(eb.Min.X+x, eb.Min.Y+y))
			a := color.RGBAModel.Convert(actual.At(area.Min.X+x, area.Min.Y+y))
			require.Equal(t, e, a, "pixel (%d, %d)", area.Min.X+x, area.Min.Y+y)
		}
	}
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMeanColorUniform(t *testing.T) {
	for _, c := range []color.RGBA{black, red, gray, {12, 200, 77, 255}} {
		mean := ComputeMeanColor(solidImage(30, 30, c))
		assert.InDelta(t, float64(c.R), mean.R, 1e-9)
		assert.InDelta(t, float64(c.G), mean.G, 1e-9)
		assert.InDelta(t, float64(c.B), mean.B, 1e-9)
	}
}

func TestComputeMeanColorFraction(t *testing.T) {
	// half black, half (255, 255, 1): means are not integers
	img := splitImage(4, 2, black, color.RGBA{255, 255, 1, 255})
	mean := ComputeMeanColor(img)
	assert.InDelta(t, 127.5, mean.R, 1e-9)
	assert.InDelta(t, 127.5, mean.G, 1e-9)
	assert.InDelta(t, 0.5, mean.B, 1e-9)
}

func TestComputeMeanColorGeneric(t *testing.T) {
	rgba := splitImage(10, 6, red, color.RGBA{10, 20, 30, 255})
	nrgba := image.NewNRGBA(rgba.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			nrgba.Set(x, y, rgba.At(x, y))
		}
	}
	assert.Equal(t, ComputeMeanColor(rgba), ComputeMeanColor(nrgba))
}

func TestComputeMeanColorSubImage(t *testing.T) {
	img := splitImage(60, 30, black, red)
	left := img.SubImage(image.Rect(0, 0, 30, 30))
	right := img.SubImage(image.Rect(30, 0, 60, 30))
	assert.Equal(t, MeanColor{}, ComputeMeanColor(left))
	assert.Equal(t, MeanColor{R: 255}, ComputeMeanColor(right))
}

func TestComputeMeanColorEmpty(t *testing.T) {
	assert.Equal(t, MeanColor{}, ComputeMeanColor(image.NewRGBA(image.Rectangle{})))
}

func TestMeanColorDist(t *testing.T) {
	a := MeanColor{R: 1, G: 2, B: 3}
	b := MeanColor{R: 4, G: 6, B: 3}
	require.InDelta(t, 5.0, a.Dist(b, EuclideanDistance), 1e-9)
	require.InDelta(t, 7.0, a.Dist(b, Manhattan), 1e-9)
	require.InDelta(t, 4.0, a.Dist(b, ChessboardDistance), 1e-9)
	require.Equal(t, []float64{4, 6, 3}, []float64{b.Component(0), b.Component(1), b.Component(2)})
}

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
)

// MeanColor is the per-channel arithmetic mean of the RGB values of a region.
// Components are in the range [0, 255].
type MeanColor struct {
	R, G, B float64
}

// ComputeMeanColor computes the mean color of an image: the sum of all pixel
// values per channel divided by the number of pixels.
//
// *image.RGBA images are read directly from their pixel buffer, all other
// images are converted pixel by pixel with ConvertRGB. Both ways yield the same
// result for the same colors.
func ComputeMeanColor(img image.Image) MeanColor {
	bounds := img.Bounds()

	// don't do anything for empty images
	if bounds.Empty() {
		return MeanColor{}
	}
	// uint64 sums can't overflow for any realistic image size
	var r, g, b uint64
	numPixels := float64(bounds.Dx() * bounds.Dy())
	if rgba, ok := img.(*image.RGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			offset := rgba.PixOffset(bounds.Min.X, y)
			row := rgba.Pix[offset : offset+4*bounds.Dx()]
			for i := 0; i < len(row); i += 4 {
				r += uint64(row[i])
				g += uint64(row[i+1])
				b += uint64(row[i+2])
			}
		}
	} else {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				rgb := ConvertRGB(img.At(x, y))
				r += uint64(rgb.R)
				g += uint64(rgb.G)
				b += uint64(rgb.B)
			}
		}
	}
	return MeanColor{
		R: float64(r) / numPixels,
		G: float64(g) / numPixels,
		B: float64(b) / numPixels,
	}
}

// Vector returns the color as a vector (r, g, b), as expected by a
// VectorMetric.
func (c MeanColor) Vector() []float64 {
	return []float64{c.R, c.G, c.B}
}

// Component returns the i-th component (0 = r, 1 = g, 2 = b).
func (c MeanColor) Component(i int) float64 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// Dist returns the distance between the two mean color vectors given the
// metric for the component vectors.
func (c MeanColor) Dist(other MeanColor, metric VectorMetric) float64 {
	return metric(c.Vector(), other.Vector())
}

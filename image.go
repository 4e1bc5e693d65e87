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
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported. Pool files not accepted by the filter are
// never opened.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions, ignoring case.
func JPGAndPNG(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// ReferenceExtensions accepts exactly ".png" and ".jpg" (case-sensitive), that
// is what the first deployment of the generator accepted.
func ReferenceExtensions(ext string) bool {
	return ext == ".png" || ext == ".jpg"
}

// AllSupported accepts every extension a decoder is registered for, that is
// jpg and png plus bmp, tiff and webp from golang.org/x/image.
func AllSupported(ext string) bool {
	if JPGAndPNG(ext) {
		return true
	}
	switch strings.ToLower(ext) {
	case ".bmp", ".tif", ".tiff", ".webp":
		return true
	default:
		return false
	}
}

// GetImageFilter returns the filter registered under name, valid names are
// "jpgpng", "reference" and "all".
func GetImageFilter(name string) (SupportedImageFunc, error) {
	switch strings.ToLower(name) {
	case "", "jpgpng":
		return JPGAndPNG, nil
	case "reference":
		return ReferenceExtensions, nil
	case "all":
		return AllSupported, nil
	default:
		return nil, fmt.Errorf("Unknown image filter: %s", name)
	}
}

// RGB is a color containing r, g and b components.
type RGB struct {
	R, G, B uint8
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	// convert to rgba model
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	// convert to internal rgb representation
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// ToRGBA returns a copy of img as *image.RGBA with bounds starting at (0, 0).
// Tiles, source images and the canvas all use this representation, so that
// mean colors of tiles and blocks are computed on the same pixel layout.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	res := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(res, res.Bounds(), img, bounds.Min, draw.Src)
	return res
}

// ImageResizer resizes an image to the given width and height.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// GiftResizer resizes images with the disintegration/gift filter package.
type GiftResizer struct {
	Resampling gift.Resampling
}

// NewGiftResizer returns a new resizer using the given resampling filter.
func NewGiftResizer(resampling gift.Resampling) GiftResizer {
	return GiftResizer{resampling}
}

// Resize implements ImageResizer.
func (resizer GiftResizer) Resize(width, height uint, img image.Image) image.Image {
	g := gift.New(gift.Resize(int(width), int(height), resizer.Resampling))
	res := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(res, img)
	return res
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 4, each
// selecting a different interpolation function. Values greater than 4 are
// treated as 5 (Lanczos3).
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// InterPFromString parses the name of an nfnt interpolation function.
func InterPFromString(s string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(s) {
	case "nearest", "nearestneighbor":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "bicubic":
		return resize.Bicubic, nil
	case "mitchell", "mitchellnetravali":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "lanczos3":
		return resize.Lanczos3, nil
	default:
		return resize.Lanczos3, fmt.Errorf("Unknown interpolation function: %s", s)
	}
}

// InterPString returns the name of an interpolation function, it is the
// inverse of InterPFromString.
func InterPString(interP resize.InterpolationFunction) string {
	switch interP {
	case resize.NearestNeighbor:
		return "nearest"
	case resize.Bilinear:
		return "bilinear"
	case resize.Bicubic:
		return "bicubic"
	case resize.MitchellNetravali:
		return "mitchell"
	case resize.Lanczos2:
		return "lanczos2"
	case resize.Lanczos3:
		return "lanczos3"
	default:
		return "unknown"
	}
}

// giftResampling maps the interpolation names of InterPFromString to gift
// resampling filters.
func giftResampling(s string) (gift.Resampling, error) {
	switch strings.ToLower(s) {
	case "nearest", "nearestneighbor":
		return gift.NearestNeighborResampling, nil
	case "bilinear":
		return gift.LinearResampling, nil
	case "bicubic", "mitchell", "mitchellnetravali":
		return gift.CubicResampling, nil
	case "lanczos2", "lanczos3":
		return gift.LanczosResampling, nil
	default:
		return gift.LanczosResampling, fmt.Errorf("Unknown interpolation function: %s", s)
	}
}

// NewResizer returns the resizer engine called engine ("nfnt" or "gift")
// using the interpolation called interP.
func NewResizer(engine, interP string) (ImageResizer, error) {
	switch strings.ToLower(engine) {
	case "", "nfnt":
		f, err := InterPFromString(interP)
		if err != nil {
			return nil, err
		}
		return NewNfntResizer(f), nil
	case "gift":
		r, err := giftResampling(interP)
		if err != nil {
			return nil, err
		}
		return NewGiftResizer(r), nil
	default:
		return nil, fmt.Errorf("Unknown resizer: %s", engine)
	}
}

var (
	// DefaultResizer is the resizer that is used by default, if you're
	// looking for a resizer default argument this seems useful.
	DefaultResizer = NewNfntResizer(resize.Lanczos3)
)

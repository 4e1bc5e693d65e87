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

// DefaultStride is the tile size used if no other size is given.
const DefaultStride = 30

// DefaultOutputWidth is the default of Options.OutputWidth.
const DefaultOutputWidth = 1000

// ProgressFactory creates a ProgressFunc for a stage of the mosaic generation,
// stage is a short description like "Indexing pool" and max the number of
// steps of that stage.
type ProgressFactory func(stage string, max int) ProgressFunc

// LoggerProgress is a ProgressFactory that logs progress with
// LoggerProgressFunc roughly every ten percent.
func LoggerProgress(stage string, max int) ProgressFunc {
	step := max / 10
	if step <= 0 {
		step = 1
	}
	return LoggerProgressFunc(stage, max, step)
}

// Options controls how pools are indexed and mosaics are composed.
// The zero value is not useful, start with DefaultOptions.
type Options struct {
	// Resizer scales pool images to tiles. All tiles of a pool are scaled by
	// the same resizer.
	Resizer ImageResizer

	// Matcher builds the nearest color lookup for the tile colors.
	Matcher MatcherFactory

	// Filter selects the files of a pool directory by extension.
	Filter SupportedImageFunc

	// Recursive includes images in subdirectories of the pool directory.
	Recursive bool

	// Dedup skips pool files with identical content.
	Dedup bool

	// NumRoutines is the number of goroutines used to decode and scale pool
	// images and to compute block colors. The result never depends on it.
	NumRoutines int

	// JPGQuality is the quality between 1 and 100 used when storing images.
	JPGQuality int

	// OutputWidth is the requested width of the mosaic. It is accepted but
	// not applied, the mosaic always has the size of the source image.
	OutputWidth int

	// Progress reports the progress of the stages, may be nil.
	Progress ProgressFactory
}

// DefaultOptions returns the options used by ComposeMosaic and IndexPool:
// nfnt Lanczos3 scaling, linear euclidean matching, jpg and png pool files,
// a single goroutine.
func DefaultOptions() Options {
	return Options{
		Resizer:     DefaultResizer,
		Matcher:     NewLinearMatcherFactory(EuclideanDistance),
		Filter:      JPGAndPNG,
		NumRoutines: 1,
		JPGQuality:  DefaultJPGQuality,
		OutputWidth: DefaultOutputWidth,
	}
}

func (opts Options) progress(stage string, max int) ProgressFunc {
	if opts.Progress == nil {
		return ProgressIgnore
	}
	return opts.Progress(stage, max)
}

// withDefaults replaces unset fields by the values of DefaultOptions.
func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.Resizer == nil {
		opts.Resizer = def.Resizer
	}
	if opts.Matcher == nil {
		opts.Matcher = def.Matcher
	}
	if opts.Filter == nil {
		opts.Filter = def.Filter
	}
	if opts.NumRoutines <= 0 {
		opts.NumRoutines = def.NumRoutines
	}
	if opts.JPGQuality < 1 || opts.JPGQuality > 100 {
		opts.JPGQuality = def.JPGQuality
	}
	return opts
}

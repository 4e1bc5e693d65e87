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

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// SelectTiles selects a tile for each cell of the division: the tile whose
// mean color is nearest to the mean color of the cell in src.
// The result has the same shape as dist, cells are visited row by row.
func SelectTiles(src *image.RGBA, dist TileDivision, matcher Matcher,
	numRoutines int, progress ProgressFunc) ([][]ImageID, error) {
	if progress == nil {
		progress = ProgressIgnore
	}
	means, meansErr := BlockMeans(src, dist, numRoutines)
	if meansErr != nil {
		return nil, meansErr
	}
	result := make([][]ImageID, len(dist))
	done := 0
	for i, row := range means {
		result[i] = make([]ImageID, len(row))
		for j, c := range row {
			result[i][j] = ImageID(matcher.Nearest(c))
			done++
			progress(done)
		}
	}
	return result, nil
}

func insertTile(into *image.RGBA, area image.Rectangle, tile *image.RGBA) {
	draw.Draw(into, area, tile, tile.Bounds().Min, draw.Src)
}

// ComposeTiles creates the canvas of the given bounds, all pixels set to zero,
// and copies pool.Tiles[symbolicTiles[i][j]] into the cell mosaicDivision[i][j].
// Cells with NoImageID are left unchanged.
func ComposeTiles(bounds image.Rectangle, pool *Pool, symbolicTiles [][]ImageID,
	mosaicDivision TileDivision) (*image.RGBA, error) {
	res := image.NewRGBA(bounds)
	if len(symbolicTiles) != len(mosaicDivision) {
		return nil, fmt.Errorf("Got %d rows of tiles but %d rows in the division",
			len(symbolicTiles), len(mosaicDivision))
	}
	for i, tilesRow := range symbolicTiles {
		divisionRow := mosaicDivision[i]
		if len(tilesRow) != len(divisionRow) {
			return nil, fmt.Errorf("Got %d tiles but %d cells in row %d",
				len(tilesRow), len(divisionRow), i)
		}
		for j, id := range tilesRow {
			if id == NoImageID {
				continue
			}
			if id < 0 || int(id) >= pool.Len() {
				return nil, fmt.Errorf("Invalid image id: Not associated with an image %d", id)
			}
			insertTile(res, divisionRow[j], pool.Tiles[id])
		}
	}
	return res, nil
}

// Compose creates a mosaic of source with the tiles from pool.
// The source is divided into pool.Stride × pool.Stride cells, each cell is
// replaced by the tile with the nearest mean color. Pixels at the right and
// bottom edge not covered by a full cell stay zero.
func Compose(source image.Image, pool *Pool, opts Options) (*image.RGBA, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, ErrEmptyPool
	}
	opts = opts.withDefaults()
	src := ToRGBA(source)
	division := NewGridDivider(pool.Stride).Divide(src.Bounds())
	matcher := opts.Matcher(pool.Colors)
	progress := opts.progress("Selecting tiles", division.NumCells())
	symbolic, selectErr := SelectTiles(src, division, matcher, opts.NumRoutines, progress)
	if selectErr != nil {
		return nil, selectErr
	}
	return ComposeTiles(src.Bounds(), pool, symbolic, division)
}

// ComposeMosaic creates a mosaic with DefaultOptions, see ComposeMosaicWith.
func ComposeMosaic(sourcePath, poolDir, outputPath string, stride int) error {
	return ComposeMosaicWith(sourcePath, poolDir, outputPath, stride, DefaultOptions())
}

// ComposeMosaicWith reads the image at sourcePath, indexes the images in
// poolDir as stride × stride tiles and writes the mosaic to outputPath.
//
// It returns an *InvalidImageError if the source can't be decoded,
// ErrEmptyPool if the pool has no decodable image and an *IOError if the
// output can't be written. No output file is left behind on error.
func ComposeMosaicWith(sourcePath, poolDir, outputPath string, stride int, opts Options) error {
	if stride <= 0 {
		return fmt.Errorf("Stride must be positive, got %d", stride)
	}
	opts = opts.withDefaults()
	source, format, decodeErr := DecodeImageFile(sourcePath)
	if decodeErr != nil {
		return &InvalidImageError{Path: sourcePath, Err: decodeErr}
	}
	bounds := source.Bounds()
	log.WithFields(log.Fields{
		"source":       sourcePath,
		"format":       format,
		"width":        bounds.Dx(),
		"height":       bounds.Dy(),
		"stride":       stride,
		"output-width": opts.OutputWidth,
	}).Info("Generating mosaic")

	pool, poolErr := IndexPoolWith(poolDir, stride, opts)
	if poolErr != nil {
		return poolErr
	}
	canvas, composeErr := Compose(source, pool, opts)
	if composeErr != nil {
		return composeErr
	}
	if encodeErr := EncodeImageFile(outputPath, canvas, opts.JPGQuality); encodeErr != nil {
		return encodeErr
	}
	log.WithField("output", outputPath).Info("Mosaic written")
	return nil
}

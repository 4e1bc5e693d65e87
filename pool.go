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
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Pool is an indexed set of tiles. Tiles[i] is a stride × stride image and
// Colors[i] its mean color, Names[i] the pool file it was created from.
// A Pool is never modified after it was created.
type Pool struct {
	Stride int
	Names  []string
	Tiles  []*image.RGBA
	Colors []MeanColor
}

// Len returns the number of tiles in the pool.
func (pool *Pool) Len() int {
	return len(pool.Tiles)
}

// NewTile scales img to a size × size tile and computes its mean color.
func NewTile(img image.Image, size int, resizer ImageResizer) (*image.RGBA, MeanColor) {
	scaled := resizer.Resize(uint(size), uint(size), img)
	tile := ToRGBA(scaled)
	return tile, ComputeMeanColor(tile)
}

// NewPool creates a pool from images in memory, names may be nil.
// It returns ErrEmptyPool if images is empty.
func NewPool(images []image.Image, names []string, size int, resizer ImageResizer) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("Tile size must be positive, got %d", size)
	}
	if len(images) == 0 {
		return nil, ErrEmptyPool
	}
	if resizer == nil {
		resizer = DefaultResizer
	}
	pool := &Pool{
		Stride: size,
		Names:  make([]string, len(images)),
		Tiles:  make([]*image.RGBA, len(images)),
		Colors: make([]MeanColor, len(images)),
	}
	for i, img := range images {
		if i < len(names) {
			pool.Names[i] = names[i]
		}
		pool.Tiles[i], pool.Colors[i] = NewTile(img, size, resizer)
	}
	return pool, nil
}

// IndexPool indexes all images in dir with DefaultOptions, see IndexPoolWith.
func IndexPool(dir string, size int) (*Pool, error) {
	return IndexPoolWith(dir, size, DefaultOptions())
}

// IndexPoolWith loads each image in dir accepted by opts.Filter, scales it to
// a size × size tile with opts.Resizer and computes the mean color of the tile.
//
// Files that can't be decoded are logged and skipped. If no tile was created
// ErrEmptyPool is returned.
// The order of the tiles is the order of the files in the directory (sorted by
// name), independent of opts.NumRoutines.
func IndexPoolWith(dir string, size int, opts Options) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("Tile size must be positive, got %d", size)
	}
	opts = opts.withDefaults()
	db, dbErr := GenFSDatabase(dir, opts.Recursive, opts.Filter)
	if dbErr != nil {
		return nil, dbErr
	}
	if opts.Dedup {
		if removed := db.Dedup(); removed > 0 {
			log.WithField("removed", removed).Info("Removed duplicate pool images")
		}
	}
	numImages := int(db.NumImages())
	tiles := make([]*image.RGBA, numImages)
	colors := make([]MeanColor, numImages)

	progress := opts.progress("Indexing pool", numImages)
	var m sync.Mutex
	done := 0

	var g errgroup.Group
	g.SetLimit(opts.NumRoutines)
	for i := 0; i < numImages; i++ {
		id := ImageID(i)
		g.Go(func() error {
			img, imgErr := db.LoadImage(id)
			if imgErr != nil {
				log.WithError(imgErr).WithField("file", db.GetPath(id)).
					Warn("Skipping pool image that can't be decoded")
			} else {
				tiles[id], colors[id] = NewTile(img, size, opts.Resizer)
			}
			m.Lock()
			done++
			progress(done)
			m.Unlock()
			return nil
		})
	}
	// workers never return an error, decode errors are skipped
	g.Wait()

	pool := &Pool{Stride: size}
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		pool.Names = append(pool.Names, db.Paths[i])
		pool.Tiles = append(pool.Tiles, tile)
		pool.Colors = append(pool.Colors, colors[i])
	}
	if pool.Len() == 0 {
		return nil, ErrEmptyPool
	}
	log.WithFields(log.Fields{
		"dir":     db.Root,
		"files":   numImages,
		"tiles":   pool.Len(),
		"skipped": numImages - pool.Len(),
	}).Debug("Indexed pool")
	return pool, nil
}

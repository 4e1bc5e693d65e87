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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
)

// ImageID is used to unambiguously identify an image in a pool, it is the
// index of the image in the pool.
type ImageID int

const (
	// NoImageID is used to signal that no image was found.
	NoImageID ImageID = -1
)

// FSImageDB is a pool of images stored on the filesystem, images are opened
// on demand.
// The paths are stored relative to Root, GetPath returns the full path.
// Paths are sorted lexically, so the ImageID of an image only depends on the
// directory content.
type FSImageDB struct {
	Root  string
	Paths []string
}

// NewFSImageDB returns an empty database with the given root.
func NewFSImageDB(root string) *FSImageDB {
	return &FSImageDB{Root: root, Paths: nil}
}

// GetPath returns the path of the image with the given id.
func (db *FSImageDB) GetPath(id ImageID) string {
	return filepath.Join(db.Root, db.Paths[id])
}

// NumImages returns the number of images in the database.
func (db *FSImageDB) NumImages() ImageID {
	return ImageID(len(db.Paths))
}

// LoadImage opens and decodes the image with the given id.
func (db *FSImageDB) LoadImage(id ImageID) (image.Image, error) {
	if id < 0 || id >= db.NumImages() {
		return nil, fmt.Errorf("Invalid image id: Not associated with an image %d", id)
	}
	img, _, err := DecodeImageFile(db.GetPath(id))
	return img, err
}

// GenFSDatabase lists all files in root accepted by filter. If filter is nil
// JPGAndPNG is used.
// If recursive is true files in subdirectories are included as well.
func GenFSDatabase(root string, recursive bool, filter SupportedImageFunc) (*FSImageDB, error) {
	root, absErr := filepath.Abs(root)
	if absErr != nil {
		return nil, absErr
	}
	if filter == nil {
		filter = JPGAndPNG
	}
	var res *FSImageDB
	var err error
	if recursive {
		res, err = genFSDBRecursive(root, filter)
	} else {
		res, err = genFSDBNonRecursive(root, filter)
	}
	if err != nil {
		return nil, &IOError{Op: "read directory", Path: root, Err: err}
	}
	return res, nil
}

func genFSDBRecursive(root string, filter SupportedImageFunc) (*FSImageDB, error) {
	result := NewFSImageDB(root)
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !d.IsDir() && filter(filepath.Ext(path)):
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			result.Paths = append(result.Paths, rel)
			return nil
		default:
			return nil
		}
	}
	// WalkDir walks in lexical order
	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, err
	}
	return result, nil
}

func genFSDBNonRecursive(root string, filter SupportedImageFunc) (*FSImageDB, error) {
	result := NewFSImageDB(root)
	// entries are sorted by filename
	files, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if !file.IsDir() && filter(filepath.Ext(file.Name())) {
			result.Paths = append(result.Paths, file.Name())
		}
	}
	return result, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Dedup removes files with identical content, only the first occurrence is
// kept. Files that can't be read are kept, they are dealt with when the
// images are decoded. It returns the number of removed entries.
//
// Removing duplicates never changes a mosaic: a duplicate has the same mean
// color as its first occurrence and ties always select the first one.
func (db *FSImageDB) Dedup() int {
	seen := make(map[uint64]struct{}, len(db.Paths))
	kept := db.Paths[:0]
	removed := 0
	for _, path := range db.Paths {
		sum, err := hashFile(filepath.Join(db.Root, path))
		if err != nil {
			kept = append(kept, path)
			continue
		}
		if _, has := seen[sum]; has {
			log.WithField("file", path).Debug("Skipping duplicate pool image")
			removed++
			continue
		}
		seen[sum] = struct{}{}
		kept = append(kept, path)
	}
	db.Paths = kept
	return removed
}

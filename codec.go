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
	"bufio"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// register additional decoders
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJPGQuality is the quality used when no other quality is given.
const DefaultJPGQuality = 100

// DecodeImageFile opens the file and decodes it with any registered decoder.
// It returns the image and the name of the format.
func DecodeImageFile(path string) (image.Image, string, error) {
	r, openErr := os.Open(path)
	if openErr != nil {
		return nil, "", openErr
	}
	defer r.Close()
	return image.Decode(bufio.NewReader(r))
}

// OutputFormat returns the format ("png" or "jpeg") used to store an image at
// path. All extensions other than ".png" are stored as jpeg.
func OutputFormat(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		return "png"
	}
	return "jpeg"
}

// EncodeImageFile writes img to path. The format is selected by OutputFormat,
// quality is only used for jpeg and must be between 1 and 100.
//
// On error the (partially written) file is removed.
func EncodeImageFile(path string, img image.Image, quality int) (err error) {
	f, createErr := os.Create(path)
	if createErr != nil {
		return &IOError{Op: "create", Path: path, Err: createErr}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: closeErr}
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	w := bufio.NewWriter(f)
	var encErr error
	switch OutputFormat(path) {
	case "png":
		encErr = png.Encode(w, img)
	default:
		if quality < 1 || quality > 100 {
			quality = DefaultJPGQuality
		}
		encErr = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	}
	if encErr != nil {
		return &IOError{Op: "encode", Path: path, Err: encErr}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return &IOError{Op: "write", Path: path, Err: flushErr}
	}
	return nil
}

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

package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	mosaic "github.com/suryavignesh1304/mosaic-generator"
)

const (
	// InputKey is the form field of the source image.
	InputKey = "input"
	// PoolKey is the form field of the pool images.
	PoolKey = "pool"
	// StrideKey is the form field of the stride.
	StrideKey = "stride"
	// OutputWidthKey is the form field of the output width.
	OutputWidthKey = "output_width"
	// Base64Key is a query parameter, if true the mosaic is returned as JSON
	// with a base64 encoded image.
	Base64Key = "base64"
)

// multipartMemory is the part of an upload kept in memory, the rest is
// stored in temporary files by the multipart reader.
const multipartMemory = 8 << 20

// workDir is the working area of a single request. Each request gets its own
// directory, so concurrent uploads with the same file names don't collide.
type workDir struct {
	root string
}

func newWorkDir(parent string) (*workDir, error) {
	id, idErr := uuid.NewRandom()
	if idErr != nil {
		return nil, idErr
	}
	root, err := os.MkdirTemp(parent, "mosaic-"+id.String()+"-")
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(filepath.Join(root, "pool"), 0o700); err != nil {
		os.RemoveAll(root)
		return nil, err
	}
	return &workDir{root: root}, nil
}

func (dir *workDir) inputPath() string {
	return filepath.Join(dir.root, "input.jpg")
}

func (dir *workDir) poolDir() string {
	return filepath.Join(dir.root, "pool")
}

func (dir *workDir) outputPath() string {
	return filepath.Join(dir.root, "output.jpg")
}

func (dir *workDir) remove() {
	if err := os.RemoveAll(dir.root); err != nil {
		log.WithError(err).WithField("dir", dir.root).Error("Error removing temporary directory")
	}
}

// poolFileName returns the name under which the i-th pool upload is stored.
// The index prefix keeps the upload order and avoids collisions of uploads
// with the same name.
func poolFileName(i int, uploaded string) string {
	base := filepath.Base(strings.ReplaceAll(uploaded, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "image"
	}
	return fmt.Sprintf("%04d-%s", i, base)
}

func saveUpload(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// positiveFormInt parses the form value key, def is returned if the value is
// empty.
func positiveFormInt(r *http.Request, key string, def int) (int, error) {
	s := strings.TrimSpace(r.FormValue(key))
	if s == "" {
		return def, nil
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	if val <= 0 {
		return -1, fmt.Errorf("%s must be positive, got %d", key, val)
	}
	return val, nil
}

// errorStatus maps errors of the generator to HTTP status codes.
func errorStatus(err error) int {
	var invalid *mosaic.InvalidImageError
	switch {
	case errors.As(err, &invalid), errors.Is(err, mosaic.ErrEmptyPool):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// GenerateMosaicHandler handles multipart uploads with a source image
// ("input"), pool images ("pool") and the optional fields "stride" and
// "output_width". The response is the mosaic as jpeg.
func GenerateMosaicHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	requestID := middleware.GetReqID(r.Context())
	if context.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, context.MaxUpload)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request, expected multipart form: %s", err))
		return nil, ErrAlreadyHandled
	}
	defer r.MultipartForm.RemoveAll()

	inputs := r.MultipartForm.File[InputKey]
	if len(inputs) == 0 {
		WriteError(w, http.StatusBadRequest, "No input image provided")
		return nil, ErrAlreadyHandled
	}
	poolImages := r.MultipartForm.File[PoolKey]
	if len(poolImages) == 0 {
		WriteError(w, http.StatusBadRequest, "No pool images provided")
		return nil, ErrAlreadyHandled
	}
	stride, strideErr := positiveFormInt(r, StrideKey, context.Stride)
	if strideErr != nil {
		WriteError(w, http.StatusBadRequest, strideErr.Error())
		return nil, ErrAlreadyHandled
	}
	outputWidth, widthErr := positiveFormInt(r, OutputWidthKey, context.OutputWidth)
	if widthErr != nil {
		WriteError(w, http.StatusBadRequest, widthErr.Error())
		return nil, ErrAlreadyHandled
	}

	dir, dirErr := newWorkDir(context.TempDir)
	if dirErr != nil {
		return nil, dirErr
	}
	defer dir.remove()

	if err := saveUpload(inputs[0], dir.inputPath()); err != nil {
		return nil, err
	}
	for i, header := range poolImages {
		if err := saveUpload(header, filepath.Join(dir.poolDir(), poolFileName(i, header.Filename))); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"request":      requestID,
		"stride":       stride,
		"output_width": outputWidth,
		"pool":         len(poolImages),
	}).Info("Generating mosaic")

	opts := context.Options
	opts.OutputWidth = outputWidth
	if err := mosaic.ComposeMosaicWith(dir.inputPath(), dir.poolDir(), dir.outputPath(), stride, opts); err != nil {
		log.WithError(err).WithField("request", requestID).Error("An error occurred while generating the mosaic")
		WriteError(w, errorStatus(err), err.Error())
		return nil, ErrAlreadyHandled
	}

	data, readErr := os.ReadFile(dir.outputPath())
	if readErr != nil {
		return nil, fmt.Errorf("Failed to generate mosaic: %w", readErr)
	}
	if b, _ := strconv.ParseBool(r.URL.Query().Get(Base64Key)); b {
		return NewEncodedImage(data, "image/jpeg"), nil
	}
	WriteImage(w, data, "image/jpeg", "mosaic.jpg")
	return nil, ErrAlreadyHandled
}

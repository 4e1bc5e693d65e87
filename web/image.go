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
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// EncodedImage is the JSON representation of an image.
type EncodedImage struct {
	MimeType string `json:"mimetype"`
	Data     string `json:"data"`
}

// NewEncodedImage encodes the image file content with base64.
func NewEncodedImage(data []byte, mimeType string) EncodedImage {
	return EncodedImage{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// DataURL returns the image as data URL, it can be used as src of an img tag.
func (img EncodedImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, img.Data)
}

// WriteImage sends the image file content as attachment with the given name.
func WriteImage(w http.ResponseWriter, data []byte, mimeType, filename string) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.WithError(err).Error("Error writing image")
	}
}

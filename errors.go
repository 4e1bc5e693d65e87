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
	"errors"
	"fmt"
)

var (
	// ErrEmptyPool is returned if a pool directory does not contain a single
	// image that could be decoded.
	ErrEmptyPool = errors.New("Pool contains no decodable images")
)

// InvalidImageError is returned if the source image can't be decoded.
type InvalidImageError struct {
	Path string
	Err  error
}

func (err *InvalidImageError) Error() string {
	return fmt.Sprintf("Invalid image %s: %v", err.Path, err.Err)
}

func (err *InvalidImageError) Unwrap() error {
	return err.Err
}

// IOError is returned if reading a directory or writing the output image
// fails. Op describes the failed operation, for example "write".
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("Can't %s %s: %v", err.Op, err.Path, err.Err)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

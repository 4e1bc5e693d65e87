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

	"golang.org/x/sync/errgroup"
)

// TileDivision represents the divison of an image into rectangles.
//
// Tiles are not stored in the fashion (x, y) but (y, x). That means each entry
// in the division describes one row of the image.
// The get method does this correctly.
type TileDivision [][]image.Rectangle

// Get returns the rectangle at position div[y][x], that is the rectangle
// in row y and column x.
func (div TileDivision) Get(x, y int) image.Rectangle {
	return div[y][x]
}

// NumCells returns the number of rectangles in the division.
func (div TileDivision) NumCells() int {
	res := 0
	for _, row := range div {
		res += len(row)
	}
	return res
}

// GridDivider divides an image into square cells with side length Stride.
// Only full cells are created: if the width or height is not a multiple of
// Stride the remaining pixels at the right and bottom edge are not part of
// any cell.
type GridDivider struct {
	Stride int
}

// NewGridDivider returns a new GridDivider.
func NewGridDivider(stride int) GridDivider {
	return GridDivider{Stride: stride}
}

// GridSize returns the number of columns and rows of the grid for the given
// bounds, that is floor(width / stride) and floor(height / stride).
func (divider GridDivider) GridSize(bounds image.Rectangle) (int, int) {
	if divider.Stride <= 0 || bounds.Empty() {
		return 0, 0
	}
	return bounds.Dx() / divider.Stride, bounds.Dy() / divider.Stride
}

// Divide returns the full cells of the grid. Cell (i, j) in row i and column j
// covers [j*stride, (j+1)*stride) × [i*stride, (i+1)*stride), relative to
// bounds.Min.
func (divider GridDivider) Divide(bounds image.Rectangle) TileDivision {
	numCols, numRows := divider.GridSize(bounds)
	if numCols == 0 || numRows == 0 {
		return nil
	}
	s := divider.Stride
	res := make(TileDivision, numRows)
	for i := 0; i < numRows; i++ {
		res[i] = make([]image.Rectangle, numCols)
		for j := 0; j < numCols; j++ {
			x0 := bounds.Min.X + j*s
			y0 := bounds.Min.Y + i*s
			res[i][j] = image.Rect(x0, y0, x0+s, y0+s)
		}
	}
	return res
}

// BlockMeans computes the mean color of each cell of the division in img.
// The result has the same shape as distribution. Rows are processed by up to
// numRoutines goroutines, the result does not depend on numRoutines.
func BlockMeans(img *image.RGBA, distribution TileDivision, numRoutines int) ([][]MeanColor, error) {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	bounds := img.Bounds()
	res := make([][]MeanColor, len(distribution))
	var g errgroup.Group
	g.SetLimit(numRoutines)
	for i, row := range distribution {
		i, row := i, row
		res[i] = make([]MeanColor, len(row))
		g.Go(func() error {
			for j, r := range row {
				if !r.In(bounds) {
					return fmt.Errorf("Cell (%d, %d) %v is not inside the image %v", i, j, r, bounds)
				}
				res[i][j] = ComputeMeanColor(img.SubImage(r))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

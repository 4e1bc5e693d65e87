// Package mosaic generates mosaic images: a source image is divided into a grid
// of square cells and every cell is replaced by the image from a pool whose
// average color is nearest to the average color of the cell.
//
// The pool is a directory of images. Each image is scaled to a square tile
// (IndexPool) and its mean color is stored next to it. ComposeMosaic divides
// the source with the same stride, looks up the nearest tile for each cell and
// writes the composed image.
//
// The web package serves the generator over HTTP, the command in cmd/mosaic
// runs it from the command line.
package mosaic

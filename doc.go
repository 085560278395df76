// Package rasterdoc provides the pixel and layer engine behind a raster
// image document: pixel buffers, region iteration, layer trees and the
// geometry adjustments a host applies when resizing, rotating or scaling
// an image.
//
// # Overview
//
// A [PixelBuffer] owns a grid of 8-bit channel values. A [RegionIterator]
// walks a rectangular part of a buffer in row-major order and can read,
// write or invert the pixel under its cursor. A [Layer] tree describes
// named, rectangular units of content; a [Document] ties a canvas to a
// root layer and applies resize, rotate and scale requests to the tree.
//
// # Quick Start
//
//	buf, _ := rasterdoc.NewPixelBuffer(64, 64, 4)
//	_ = buf.Fill(200, 100, 50, 255)
//
//	it, _ := rasterdoc.NewRegionIterator(buf, 0, 0, 32, 32)
//	for !it.IsDone() {
//	    _ = it.InvertPixel()
//	    it.Advance()
//	}
//
//	doc, _ := rasterdoc.NewDocument("untitled", 64, 64)
//	_ = doc.AddLayer(rasterdoc.NewPixelLayer("paint", 40, 40, buf))
//	canvas, _ := doc.ResizeToLayers() // canvas now covers the layer
//
// # Geometry
//
// [ResizeDocument], [RotateAdjust] and [ScaleAdjust] are pure: they
// validate and compute, and leave applying the result to the caller.
// The resample sub-package supplies the pixel work for [Document.Rotate]
// and [Document.Scale].
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Positive rotation angles turn clockwise on screen
//
// # Concurrency
//
// Everything here is synchronous. Buffers, iterators, layers and
// documents are not safe for concurrent mutation; callers keep at most one
// writer per buffer.
package rasterdoc

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

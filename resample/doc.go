// Package resample performs the pixel work behind rasterdoc's scale and
// rotate adjustments.
//
// Each rasterdoc.Strategy maps to a separable filter kernel expressed as a
// golang.org/x/image/draw.Kernel, so scaling and arbitrary-angle rotation
// share one filtering implementation. Quarter turns are done by exact
// pixel remapping and never blur.
//
// Resampler implements rasterdoc.Resampler:
//
//	doc.SetResampler(resample.New())
//	p, _ := rasterdoc.ScaleAdjust(800, 600, 72, 72, "Lanczos3")
//	_ = doc.Scale(p)
package resample

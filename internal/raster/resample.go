package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Resample scales src to exactly w×h with bilinear filtering and returns it
// as a new buffer. Transparent source pixels stay transparent.
func Resample(src image.Image, w, h int) *Buffer {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	Logger().Debug("raster: resampled reference",
		"from", src.Bounds().Size(), "to", dst.Bounds().Size())
	return FromRGBA(dst)
}

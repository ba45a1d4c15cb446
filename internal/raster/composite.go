package raster

import (
	"image"
)

// LiveOpacity is the overlay opacity of the line art in the on-screen view.
const LiveOpacity = 0.9

// Multiply blends ref over drawing with a multiply blend at the given
// opacity (0..1) and writes the result into dst within r. dst must have the
// buffers' bounds. Output alpha is always opaque.
//
// With reference alpha a and premultiplied reference value rp, all in [0,1]:
//
//	out = d * (1 - opacity*a + opacity*rp)
//
// which is d*r for an opaque reference at full opacity and leaves d unchanged
// where the reference is transparent.
func Multiply(dst *image.RGBA, drawing, ref *Buffer, r image.Rectangle, opacity float64) {
	r = r.Intersect(drawing.Bounds()).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	k := uint32(opacity*255 + 0.5)
	if k > 255 {
		k = 255
	}
	w := drawing.Width()
	dp, rp := drawing.Pix(), ref.Pix()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		out := dst.Pix[dst.PixOffset(r.Min.X, y):]
		for x := r.Min.X; x < r.Max.X; x++ {
			i := (y*w + x) * 4
			a := uint32(rp[i+3])
			o := out[(x-r.Min.X)*4:]
			for c := 0; c < 3; c++ {
				f := 255*255 - k*a + k*uint32(rp[i+c])
				if f > 255*255 {
					// not premultiplied
					f = 255 * 255
				}
				o[c] = uint8(uint32(dp[i+c]) * f / (255 * 255))
			}
			o[3] = 0xff
		}
	}
}

// LiveView composites the whole canvas for display.
func LiveView(drawing, ref *Buffer) *image.RGBA {
	dst := image.NewRGBA(drawing.Bounds())
	Multiply(dst, drawing, ref, dst.Bounds(), LiveOpacity)
	return dst
}

// Flatten produces the export image: out[c] = drawing[c]*reference[c]/255
// with alpha forced opaque.
func Flatten(drawing, ref *Buffer) *image.RGBA {
	if !drawing.SameSize(ref) {
		panic("raster: drawing and reference buffers differ in size")
	}
	dst := image.NewRGBA(drawing.Bounds())
	Multiply(dst, drawing, ref, dst.Bounds(), 1)
	return dst
}

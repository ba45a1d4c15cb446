package raster

import (
	"image"
	"image/color"
)

// BoundaryThreshold is the channel-average luminance below which a reference
// pixel blocks a fill. The test is binary: there is no tolerance band, so
// soft anti-aliased edges above the threshold let a fill through.
const BoundaryThreshold = 200

// IsBoundary reports whether the reference pixel at (x, y) is line art.
// The buffer is premultiplied, so translucent pixels are judged by their
// straight color. Fully transparent pixels carry no line art, so an empty
// (unloaded) reference has no boundaries at all.
func IsBoundary(ref *Buffer, x, y int) bool {
	p := ref.Pix()[(y*ref.Width()+x)*4:]
	a := int(p[3])
	if a == 0 {
		return false
	}
	sum := int(p[0]) + int(p[1]) + int(p[2])
	if a < 0xff {
		sum = sum * 0xff / a
	}
	return sum < 3*BoundaryThreshold
}

// Region returns the 4-connected set of non-boundary reference pixels
// reachable from seed as a dense row-major mask, together with the number of
// pixels set and their bounding box. A seed on a boundary, or outside the
// buffer, yields an empty region.
func Region(ref *Buffer, seed image.Point) (mask []bool, n int, bounds image.Rectangle) {
	w, h := ref.Width(), ref.Height()
	mask = make([]bool, w*h)
	if !ref.In(seed.X, seed.Y) || IsBoundary(ref, seed.X, seed.Y) {
		return mask, 0, image.Rectangle{}
	}

	// Pixels are marked when pushed, so the stack never holds more than
	// w*h entries.
	visited := make([]bool, w*h)
	stack := make([]int32, 0, 4096)
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		i := y*w + x
		if visited[i] {
			return
		}
		visited[i] = true
		stack = append(stack, int32(i))
	}

	minX, minY, maxX, maxY := seed.X, seed.Y, seed.X, seed.Y
	push(seed.X, seed.Y)
	for len(stack) > 0 {
		i := int(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if IsBoundary(ref, x, y) {
			continue
		}
		mask[i] = true
		n++
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		push(x+1, y)
		push(x-1, y)
		push(x, y+1)
		push(x, y-1)
	}
	return mask, n, image.Rect(minX, minY, maxX+1, maxY+1)
}

// FloodFill colors the region reachable from seed in dst with c at full
// opacity, using ref as the boundary oracle. The region is computed before
// any pixel of dst is written. It returns the number of pixels colored and
// the rectangle that changed.
func FloodFill(dst, ref *Buffer, seed image.Point, c color.RGBA) (int, image.Rectangle) {
	if !dst.SameSize(ref) {
		panic("raster: drawing and reference buffers differ in size")
	}
	mask, n, bounds := Region(ref, seed)
	if n == 0 {
		Logger().Debug("raster: fill seed is a boundary", "seed", seed)
		return 0, image.Rectangle{}
	}

	w := dst.Width()
	pix := dst.Pix()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := y * w
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !mask[row+x] {
				continue
			}
			p := pix[(row+x)*4:]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 0xff
		}
	}
	Logger().Debug("raster: flood fill", "seed", seed, "pixels", n, "bounds", bounds)
	return n, bounds
}

package graphics

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// RoundToPixelGrid rounds a logical coordinate to the nearest physical pixel
// for the given point scale factor. A non-positive scale leaves v unchanged.
//
// The value is converted to 26.6 fixed point in physical pixels, rounded to
// a whole pixel, then converted back to logical points. Values beyond the
// 26.6 range are rounded in floating point instead.
func RoundToPixelGrid(v, scale float64) float64 {
	if scale <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if math.Abs(v*scale) > maxFixedPixels {
		return math.Round(v*scale) / scale
	}
	physical := fixed.Int26_6(roundHalfAway(v * scale * 64))
	return float64(physical.Round()) / scale
}

// Snap returns the rectangle with every edge rounded to the pixel grid.
// Edges are rounded independently so adjacent rectangles stay adjacent.
func (r Rect) Snap(scale float64) Rect {
	return Rect{
		Left:   RoundToPixelGrid(r.Left, scale),
		Top:    RoundToPixelGrid(r.Top, scale),
		Right:  RoundToPixelGrid(r.Right, scale),
		Bottom: RoundToPixelGrid(r.Bottom, scale),
	}
}

// maxFixedPixels leaves headroom below the largest Int26_6 so Round cannot
// overflow.
const maxFixedPixels = 1 << 24

func roundHalfAway(v float64) int32 {
	if v < 0 {
		return int32(v - 0.5)
	}
	return int32(v + 0.5)
}

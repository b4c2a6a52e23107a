// Package layout defines the vocabulary shared by the shadow tree and its
// layout engine: constraints, context, metrics, style, and the Engine
// contract. BoxEngine is a reference engine implementing a stacking box
// model.
package layout

import (
	"github.com/go-drift/fabric/pkg/graphics"
)

// Tag identifies a logical element within one surface.
type Tag int64

// Direction is the horizontal writing direction used by the engine.
type Direction int

const (
	// DirectionInherit leaves the direction to the parent (LTR at the root).
	DirectionInherit Direction = iota
	// DirectionLTR lays rows out left to right.
	DirectionLTR
	// DirectionRTL lays rows out right to left.
	DirectionRTL
)

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "inherit"
	}
}

// Constraints bound the size a node may take.
type Constraints struct {
	MinSize   graphics.Size
	MaxSize   graphics.Size
	Direction Direction
}

// Tight returns constraints that only admit size.
func Tight(size graphics.Size) Constraints {
	return Constraints{MinSize: size, MaxSize: size}
}

// Constrain clamps size into the constraints.
func (c Constraints) Constrain(size graphics.Size) graphics.Size {
	return graphics.Size{
		Width:  clamp(size.Width, c.MinSize.Width, c.MaxSize.Width),
		Height: clamp(size.Height, c.MinSize.Height, c.MaxSize.Height),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Context carries surface-wide parameters bound to a root at clone time.
type Context struct {
	// PointScaleFactor is the number of physical pixels per logical point.
	PointScaleFactor float64
	// FontSizeMultiplier scales text measurement.
	FontSizeMultiplier float64
	// SwapLeftAndRightInRTL mirrors left/right insets in RTL layouts.
	SwapLeftAndRightInRTL bool
	// ViewportOffset is the root frame origin.
	ViewportOffset graphics.Offset
}

// DefaultContext returns a context with unit scale factors.
func DefaultContext() Context {
	return Context{PointScaleFactor: 1, FontSizeMultiplier: 1}
}

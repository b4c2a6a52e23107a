package layout

import "github.com/go-drift/fabric/pkg/graphics"

// Display controls whether a node takes part in layout.
type Display int

const (
	// DisplayFlex lays the node out normally.
	DisplayFlex Display = iota
	// DisplayNone collapses the node and skips its children.
	DisplayNone
)

func (d Display) String() string {
	if d == DisplayNone {
		return "none"
	}
	return "flex"
}

// Metrics is the computed geometry of a node. Frame is relative to the
// parent's origin.
type Metrics struct {
	Frame            graphics.Rect
	ContentInsets    graphics.EdgeInsets
	BorderWidth      graphics.EdgeInsets
	Display          Display
	Direction        Direction
	PointScaleFactor float64
}

// EmptyMetrics is the metrics value of a node that was never laid out.
var EmptyMetrics = Metrics{PointScaleFactor: 1}

// Equal reports whether both metrics describe the same visible geometry.
func (m Metrics) Equal(other Metrics) bool {
	return m == other
}

// ContentFrame returns the frame minus content insets, in the node's own
// coordinate space.
func (m Metrics) ContentFrame() graphics.Rect {
	return graphics.RectFromLTWH(0, 0, m.Frame.Width(), m.Frame.Height()).Deflate(m.ContentInsets)
}

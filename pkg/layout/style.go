package layout

import "github.com/go-drift/fabric/pkg/graphics"

// Axis selects the main axis children are stacked along.
type Axis int

const (
	// AxisColumn stacks children top to bottom.
	AxisColumn Axis = iota
	// AxisRow stacks children along the writing direction.
	AxisRow
)

func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "column"
}

// Style holds the layout-relevant part of a node's props.
// Nil Width or Height means the size comes from constraints and content.
type Style struct {
	Axis    Axis
	Width   *float64
	Height  *float64
	Padding graphics.EdgeInsets
	Margin  graphics.EdgeInsets
	Border  graphics.EdgeInsets
	Grow    float64
	Display Display
}

// Styled is implemented by props that take part in layout. Props that do
// not implement it are laid out with the zero Style.
type Styled interface {
	LayoutStyle() Style
}

// StyleOf extracts the layout style from opaque props.
func StyleOf(props any) Style {
	if s, ok := props.(Styled); ok {
		return s.LayoutStyle()
	}
	return Style{}
}

// Points returns a pointer to v, for fixed Width and Height values.
func Points(v float64) *float64 {
	return &v
}

package layout

import (
	"math"

	"github.com/go-drift/fabric/pkg/graphics"
)

// BoxEngine is a reference Engine that stacks children along a main axis,
// stretches them across the cross axis, and distributes free main-axis
// space to children with a positive Grow.
//
// A node is skipped when it is clean and receives the same constraints it
// was last laid out under; its cached size is reused and only its position
// may change. Frames are snapped to the pixel grid of the context's
// PointScaleFactor.
type BoxEngine struct{}

// NewBoxEngine returns a BoxEngine.
func NewBoxEngine() *BoxEngine {
	return &BoxEngine{}
}

// Layout implements Engine.
func (e *BoxEngine) Layout(root Box, constraints Constraints, ctx Context) Result {
	scale := ctx.PointScaleFactor
	if scale <= 0 {
		scale = 1
	}
	dir := constraints.Direction
	if dir == DirectionInherit {
		dir = DirectionLTR
	}
	p := &boxPass{
		scale:     scale,
		swapInRTL: ctx.SwapLeftAndRightInRTL,
		nodes:     make(map[Tag]Computed),
	}

	top := p.layout(root, constraints, dir)
	metrics := top.metrics
	metrics.Frame = graphics.RectFromOffsetAndSize(ctx.ViewportOffset, top.metrics.Frame.Size()).Snap(scale)

	return Result{
		Root:             metrics,
		RootHasNewLayout: !metrics.Equal(root.LayoutMetrics()),
		RootConstraints:  constraints,
		Nodes:            p.nodes,
	}
}

type boxPass struct {
	scale     float64
	swapInRTL bool
	nodes     map[Tag]Computed
}

// measured is a node whose size is known but whose position is not.
type measured struct {
	box         Box
	style       Style
	constraints Constraints
	metrics     Metrics
	recomputed  bool
}

func (p *boxPass) layout(box Box, c Constraints, dir Direction) measured {
	style := StyleOf(box.BoxProps())
	if dir == DirectionRTL && p.swapInRTL {
		style = mirrorInsets(style)
	}
	if box.IsLayoutClean() && box.LayoutConstraints() == c {
		return measured{box: box, style: style, constraints: c, metrics: box.LayoutMetrics()}
	}

	m := Metrics{
		ContentInsets:    style.Padding.Add(style.Border),
		BorderWidth:      style.Border,
		Display:          style.Display,
		Direction:        dir,
		PointScaleFactor: p.scale,
	}
	if style.Display == DisplayNone {
		return measured{box: box, style: style, constraints: c, metrics: m, recomputed: true}
	}

	size := p.layoutChildren(box, style, c, dir, m.ContentInsets)
	m.Frame = graphics.RectFromOffsetAndSize(graphics.Offset{}, size)
	return measured{box: box, style: style, constraints: c, metrics: m, recomputed: true}
}

// place positions a measured node and records it when anything changed.
func (p *boxPass) place(n measured, origin graphics.Offset) {
	m := n.metrics
	m.Frame = graphics.RectFromOffsetAndSize(origin, n.metrics.Frame.Size()).Snap(p.scale)
	if n.recomputed || !m.Equal(n.box.LayoutMetrics()) {
		p.nodes[n.box.Tag()] = Computed{Constraints: n.constraints, Metrics: m}
	}
}

func (p *boxPass) layoutChildren(box Box, style Style, c Constraints, dir Direction, insets graphics.EdgeInsets) graphics.Size {
	row := style.Axis == AxisRow

	width, hasWidth := definite(style.Width, c.MinSize.Width, c.MaxSize.Width)
	height, hasHeight := definite(style.Height, c.MinSize.Height, c.MaxSize.Height)

	mainSize, hasMain, crossSize, hasCross := height, hasHeight, width, hasWidth
	maxMain, maxCross := c.MaxSize.Height, c.MaxSize.Width
	mainInset, crossInset := insets.Vertical(), insets.Horizontal()
	mainStart, crossStart := insets.Top, insets.Left
	if row {
		mainSize, hasMain, crossSize, hasCross = width, hasWidth, height, hasHeight
		maxMain, maxCross = maxCross, maxMain
		mainInset, crossInset = crossInset, mainInset
		mainStart, crossStart = crossStart, mainStart
	}

	innerMain := inner(mainSize, hasMain, maxMain, mainInset)
	innerCross := inner(crossSize, hasCross, maxCross, crossInset)
	stretch := !math.IsInf(innerCross, 1)

	children := box.ChildBoxes()
	laid := make([]measured, len(children))
	var used, totalGrow float64
	for i, child := range children {
		cs := StyleOf(child.BoxProps())
		if cs.Grow > 0 && hasMain {
			totalGrow += cs.Grow
			continue
		}
		laid[i] = p.layout(child, childConstraints(cs, row, innerMain, innerCross, stretch, nil, dir), dir)
		used += mainExtent(laid[i], row)
	}
	if totalGrow > 0 {
		free := math.Max(0, innerMain-used)
		for i, child := range children {
			cs := StyleOf(child.BoxProps())
			if cs.Grow <= 0 {
				continue
			}
			share := free * cs.Grow / totalGrow
			laid[i] = p.layout(child, childConstraints(cs, row, innerMain, innerCross, stretch, &share, dir), dir)
		}
	}

	origins := make([]graphics.Offset, len(laid))
	cursor := mainStart
	var crossExtent float64
	for i, n := range laid {
		if n.style.Display == DisplayNone {
			origins[i] = axisOffset(row, cursor, crossStart)
			continue
		}
		mStart, mEnd, cStart, cEnd := margins(n.style.Margin, row)
		childMain, childCross := n.metrics.Frame.Height(), n.metrics.Frame.Width()
		if row {
			childMain, childCross = childCross, childMain
		}
		cursor += mStart
		origins[i] = axisOffset(row, cursor, crossStart+cStart)
		cursor += childMain + mEnd
		crossExtent = math.Max(crossExtent, cStart+childCross+cEnd)
	}

	ownMain := mainSize
	if !hasMain {
		ownMain = cursor - mainStart + mainInset
	}
	ownCross := crossSize
	if !hasCross {
		ownCross = crossExtent + crossInset
	}
	size := graphics.Size{Width: ownCross, Height: ownMain}
	if row {
		size = graphics.Size{Width: ownMain, Height: ownCross}
	}
	size = c.Constrain(size)

	for i, n := range laid {
		origin := origins[i]
		if dir == DirectionRTL {
			origin.X = size.Width - origin.X - n.metrics.Frame.Width()
		}
		p.place(n, origin)
	}
	return size
}

func childConstraints(cs Style, row bool, innerMain, innerCross float64, stretch bool, share *float64, dir Direction) Constraints {
	marginMain, marginCross := cs.Margin.Vertical(), cs.Margin.Horizontal()
	fixedMain, fixedCross := cs.Height, cs.Width
	if row {
		marginMain, marginCross = marginCross, marginMain
		fixedMain, fixedCross = fixedCross, fixedMain
	}

	var minMain, maxMain float64
	switch {
	case share != nil:
		minMain = math.Max(0, *share-marginMain)
		maxMain = minMain
	case fixedMain != nil:
		minMain, maxMain = *fixedMain, *fixedMain
	default:
		maxMain = math.Max(0, innerMain-marginMain)
	}

	var minCross, maxCross float64
	switch {
	case fixedCross != nil:
		minCross, maxCross = *fixedCross, *fixedCross
	case stretch:
		minCross = math.Max(0, innerCross-marginCross)
		maxCross = minCross
	default:
		maxCross = math.Max(0, innerCross-marginCross)
	}

	if row {
		return Constraints{
			MinSize:   graphics.Size{Width: minMain, Height: minCross},
			MaxSize:   graphics.Size{Width: maxMain, Height: maxCross},
			Direction: dir,
		}
	}
	return Constraints{
		MinSize:   graphics.Size{Width: minCross, Height: minMain},
		MaxSize:   graphics.Size{Width: maxCross, Height: maxMain},
		Direction: dir,
	}
}

// definite resolves a fixed or tightly constrained size along one axis.
func definite(fixed *float64, lo, hi float64) (float64, bool) {
	if fixed != nil {
		return clamp(*fixed, lo, hi), true
	}
	if lo == hi && !math.IsInf(hi, 1) {
		return lo, true
	}
	return 0, false
}

// inner returns the space available to children along one axis.
func inner(size float64, has bool, limit, inset float64) float64 {
	if has {
		return math.Max(0, size-inset)
	}
	if math.IsInf(limit, 1) {
		return limit
	}
	return math.Max(0, limit-inset)
}

func mainExtent(n measured, row bool) float64 {
	if n.style.Display == DisplayNone {
		return 0
	}
	if row {
		return n.metrics.Frame.Width() + n.style.Margin.Horizontal()
	}
	return n.metrics.Frame.Height() + n.style.Margin.Vertical()
}

func margins(m graphics.EdgeInsets, row bool) (mainStart, mainEnd, crossStart, crossEnd float64) {
	if row {
		return m.Left, m.Right, m.Top, m.Bottom
	}
	return m.Top, m.Bottom, m.Left, m.Right
}

func axisOffset(row bool, main, cross float64) graphics.Offset {
	if row {
		return graphics.Offset{X: main, Y: cross}
	}
	return graphics.Offset{X: cross, Y: main}
}

func mirrorInsets(s Style) Style {
	s.Padding.Left, s.Padding.Right = s.Padding.Right, s.Padding.Left
	s.Margin.Left, s.Margin.Right = s.Margin.Right, s.Margin.Left
	s.Border.Left, s.Border.Right = s.Border.Right, s.Border.Left
	return s
}

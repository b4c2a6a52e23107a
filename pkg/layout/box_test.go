package layout

import (
	"testing"

	"github.com/go-drift/fabric/pkg/graphics"
)

type fakeBox struct {
	tag         Tag
	style       Style
	children    []*fakeBox
	metrics     Metrics
	constraints Constraints
	clean       bool
	visits      int
}

type fakeProps struct{ style Style }

func (p fakeProps) LayoutStyle() Style { return p.style }

func (b *fakeBox) Tag() Tag                       { return b.tag }
func (b *fakeBox) BoxProps() any                  { return fakeProps{b.style} }
func (b *fakeBox) LayoutMetrics() Metrics         { return b.metrics }
func (b *fakeBox) LayoutConstraints() Constraints { return b.constraints }
func (b *fakeBox) IsLayoutClean() bool            { return b.clean }

func (b *fakeBox) ChildBoxes() []Box {
	b.visits++
	out := make([]Box, len(b.children))
	for i, c := range b.children {
		out[i] = c
	}
	return out
}

func frameOf(t *testing.T, res Result, tag Tag) graphics.Rect {
	t.Helper()
	c, ok := res.Nodes[tag]
	if !ok {
		t.Fatalf("tag %d was not laid out", tag)
	}
	return c.Metrics.Frame
}

func TestBoxEngine_ColumnStacksChildren(t *testing.T) {
	root := &fakeBox{tag: 1, children: []*fakeBox{
		{tag: 2, style: Style{Height: Points(30)}},
		{tag: 3, style: Style{Height: Points(50)}},
	}}

	res := NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 100, Height: 200}), DefaultContext())

	if got, want := res.Root.Frame, graphics.RectFromLTWH(0, 0, 100, 200); got != want {
		t.Errorf("root frame = %+v, want %+v", got, want)
	}
	if !res.RootHasNewLayout {
		t.Error("first layout should report new root layout")
	}
	if got, want := frameOf(t, res, 2), graphics.RectFromLTWH(0, 0, 100, 30); got != want {
		t.Errorf("child 2 frame = %+v, want %+v", got, want)
	}
	if got, want := frameOf(t, res, 3), graphics.RectFromLTWH(0, 30, 100, 50); got != want {
		t.Errorf("child 3 frame = %+v, want %+v", got, want)
	}
}

func TestBoxEngine_RowDistributesGrow(t *testing.T) {
	root := &fakeBox{tag: 1, style: Style{Axis: AxisRow}, children: []*fakeBox{
		{tag: 2, style: Style{Width: Points(100)}},
		{tag: 3, style: Style{Grow: 1}},
	}}

	res := NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 300, Height: 100}), DefaultContext())

	if got, want := frameOf(t, res, 2), graphics.RectFromLTWH(0, 0, 100, 100); got != want {
		t.Errorf("fixed child frame = %+v, want %+v", got, want)
	}
	if got, want := frameOf(t, res, 3), graphics.RectFromLTWH(100, 0, 200, 100); got != want {
		t.Errorf("grow child frame = %+v, want %+v", got, want)
	}
}

func TestBoxEngine_PaddingAndMargin(t *testing.T) {
	root := &fakeBox{tag: 1, style: Style{Padding: graphics.EdgeInsetsAll(10)}, children: []*fakeBox{
		{tag: 2, style: Style{Height: Points(20), Margin: graphics.EdgeInsetsAll(5)}},
	}}

	res := NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 100, Height: 100}), DefaultContext())

	if got, want := frameOf(t, res, 2), graphics.RectFromLTWH(15, 15, 70, 20); got != want {
		t.Errorf("child frame = %+v, want %+v", got, want)
	}
	if got, want := res.Root.ContentInsets, graphics.EdgeInsetsAll(10); got != want {
		t.Errorf("root content insets = %+v, want %+v", got, want)
	}
}

func TestBoxEngine_SkipsCleanSubtree(t *testing.T) {
	childConstraints := Constraints{
		MinSize:   graphics.Size{Width: 100, Height: 30},
		MaxSize:   graphics.Size{Width: 100, Height: 30},
		Direction: DirectionLTR,
	}
	cached := Metrics{
		Frame:            graphics.RectFromLTWH(0, 0, 100, 30),
		Direction:        DirectionLTR,
		PointScaleFactor: 1,
	}
	clean := &fakeBox{
		tag:         2,
		style:       Style{Height: Points(30)},
		children:    []*fakeBox{{tag: 4}},
		metrics:     cached,
		constraints: childConstraints,
		clean:       true,
	}
	root := &fakeBox{tag: 1, children: []*fakeBox{clean}}

	res := NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 100, Height: 200}), DefaultContext())
	if _, ok := res.Nodes[2]; ok {
		t.Error("clean child in place should not be reported")
	}
	if clean.visits != 0 {
		t.Errorf("clean child was descended into %d times", clean.visits)
	}

	// A new sibling in front moves the clean child without relaying it out.
	root.children = []*fakeBox{{tag: 3, style: Style{Height: Points(10)}}, clean}
	res = NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 100, Height: 200}), DefaultContext())
	if got, want := frameOf(t, res, 2), graphics.RectFromLTWH(0, 10, 100, 30); got != want {
		t.Errorf("moved clean child frame = %+v, want %+v", got, want)
	}
	if clean.visits != 0 {
		t.Errorf("moved clean child was descended into %d times", clean.visits)
	}
	if _, ok := res.Nodes[4]; ok {
		t.Error("grandchild of a clean child should not be reported")
	}
}

func TestBoxEngine_RTLMirrorsRow(t *testing.T) {
	root := &fakeBox{tag: 1, style: Style{Axis: AxisRow}, children: []*fakeBox{
		{tag: 2, style: Style{Width: Points(100)}},
		{tag: 3, style: Style{Width: Points(50)}},
	}}
	c := Tight(graphics.Size{Width: 300, Height: 100})
	c.Direction = DirectionRTL

	res := NewBoxEngine().Layout(root, c, DefaultContext())

	if got := frameOf(t, res, 2).Left; got != 200 {
		t.Errorf("first child left = %v, want 200", got)
	}
	if got := frameOf(t, res, 3).Left; got != 150 {
		t.Errorf("second child left = %v, want 150", got)
	}
	if res.Nodes[2].Metrics.Direction != DirectionRTL {
		t.Error("children should inherit RTL direction")
	}
}

func TestBoxEngine_DisplayNoneCollapses(t *testing.T) {
	hidden := &fakeBox{tag: 3, style: Style{Height: Points(40), Display: DisplayNone}, children: []*fakeBox{{tag: 5}}}
	root := &fakeBox{tag: 1, children: []*fakeBox{
		{tag: 2, style: Style{Height: Points(10)}},
		hidden,
		{tag: 4, style: Style{Height: Points(10)}},
	}}

	res := NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 50, Height: 50}), DefaultContext())

	if got := frameOf(t, res, 3); got.Width() != 0 || got.Height() != 0 {
		t.Errorf("hidden frame = %+v, want empty", got)
	}
	if got := frameOf(t, res, 4).Top; got != 10 {
		t.Errorf("sibling after hidden node top = %v, want 10", got)
	}
	if hidden.visits != 0 {
		t.Error("children of a hidden node should not be visited")
	}
}

func TestBoxEngine_SnapsToPixelGrid(t *testing.T) {
	root := &fakeBox{tag: 1, children: []*fakeBox{
		{tag: 2, style: Style{Height: Points(10.3)}},
		{tag: 3, style: Style{Height: Points(10.3)}},
	}}
	ctx := DefaultContext()
	ctx.PointScaleFactor = 2

	res := NewBoxEngine().Layout(root, Tight(graphics.Size{Width: 20, Height: 40}), ctx)

	if got := frameOf(t, res, 2).Bottom; got != 10.5 {
		t.Errorf("first child bottom = %v, want 10.5", got)
	}
	if got, want := frameOf(t, res, 3).Top, frameOf(t, res, 2).Bottom; got != want {
		t.Errorf("siblings should stay adjacent: %v vs %v", got, want)
	}
}

func TestCountingEngine(t *testing.T) {
	counting := NewCounting(NewBoxEngine())
	root := &fakeBox{tag: 1, children: []*fakeBox{{tag: 2}, {tag: 3}}}

	counting.Layout(root, Tight(graphics.Size{Width: 10, Height: 10}), DefaultContext())
	counting.Layout(root, Tight(graphics.Size{Width: 10, Height: 10}), DefaultContext())

	if got := counting.Calls(); got != 2 {
		t.Errorf("Calls() = %d, want 2", got)
	}
	if got := counting.Recomputed(); got != 4 {
		t.Errorf("Recomputed() = %d, want 4", got)
	}
	counting.Reset()
	if counting.Calls() != 0 || counting.Recomputed() != 0 {
		t.Error("Reset should zero counters")
	}
}

func TestConstraintsConstrain(t *testing.T) {
	c := Constraints{MinSize: graphics.Size{Width: 10, Height: 10}, MaxSize: graphics.Size{Width: 20, Height: 20}}
	if got := c.Constrain(graphics.Size{Width: 5, Height: 50}); got != (graphics.Size{Width: 10, Height: 20}) {
		t.Errorf("Constrain = %+v", got)
	}
	tight := Tight(graphics.Size{Width: 3, Height: 4})
	if got := tight.Constrain(graphics.Size{Width: 100}); got != (graphics.Size{Width: 3, Height: 4}) {
		t.Errorf("Tight.Constrain = %+v", got)
	}
}

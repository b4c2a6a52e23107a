package testing

import (
	"fmt"

	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/scene"
	"github.com/go-drift/fabric/pkg/shadow"
)

// TreeBuilder creates test trees. Each component name maps to one family,
// so building the same component twice yields two versions of one element.
type TreeBuilder struct {
	registry *shadow.FamilyRegistry
	families map[string]*shadow.Family
}

// NewTreeBuilder returns a builder for surface.
func NewTreeBuilder(surface shadow.SurfaceID) *TreeBuilder {
	return &TreeBuilder{
		registry: shadow.NewFamilyRegistry(surface),
		families: make(map[string]*shadow.Family),
	}
}

// Family returns the family of component, creating it on first use.
func (b *TreeBuilder) Family(component string) *shadow.Family {
	f, ok := b.families[component]
	if !ok {
		f = b.registry.NewFamily(component)
		b.families[component] = f
	}
	return f
}

// Node creates an unsealed node of component with scene props.
func (b *TreeBuilder) Node(component string, style layout.Style, children ...*shadow.Node) *shadow.Node {
	return shadow.NewNode(b.Family(component), shadow.Fragment{
		Props:    scene.Props{Component: component, Style: style},
		Children: children,
	})
}

// Root creates an unsealed root of the "Root" component.
func (b *TreeBuilder) Root(c layout.Constraints, children ...*shadow.Node) *shadow.Root {
	return b.StyledRoot(c, layout.Style{}, children...)
}

// StyledRoot is Root with a root style.
func (b *TreeBuilder) StyledRoot(c layout.Constraints, style layout.Style, children ...*shadow.Node) *shadow.Root {
	return shadow.NewRoot(b.Family("Root"), c, layout.DefaultContext(),
		scene.Props{Component: "Root", Style: style}, children...)
}

// Chain builds a linear tree Root -> N1 -> ... -> Nn and returns the root
// and the families from N1 down. Every node but the last has a sibling
// leaf named S<i>.
func (b *TreeBuilder) Chain(c layout.Constraints, depth int) (*shadow.Root, []*shadow.Family) {
	var node *shadow.Node
	families := make([]*shadow.Family, depth)
	for i := depth; i >= 1; i-- {
		name := fmt.Sprintf("N%d", i)
		families[i-1] = b.Family(name)
		if node == nil {
			node = b.Node(name, Height(10))
			continue
		}
		node = b.Node(name, layout.Style{}, node, b.Node(fmt.Sprintf("S%d", i+1), Height(10)))
	}
	if node == nil {
		return b.Root(c), families
	}
	return b.Root(c, node, b.Node("S1", Height(10))), families
}

// Height is a style with a fixed height.
func Height(v float64) layout.Style {
	return layout.Style{Height: layout.Points(v)}
}

// Size is a style with a fixed width and height.
func Size(w, h float64) layout.Style {
	return layout.Style{Width: layout.Points(w), Height: layout.Points(h)}
}

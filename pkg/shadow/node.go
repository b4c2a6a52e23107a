package shadow

import (
	"slices"

	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/layout"
)

// Props is an immutable property value. The tree never looks inside it;
// props that take part in layout implement layout.Styled.
type Props any

// Fragment lists the fields a clone replaces. Nil fields are copied from
// the source node. Use NoChildren to clear the child list.
type Fragment struct {
	Props    Props
	Children []*Node
}

// NoChildren is an empty child list for Fragment.Children.
var NoChildren = []*Node{}

// Node is one element of a tree version.
//
// A node is mutable only until it is sealed. Attaching a node under another
// node seals it, so every node reachable from a published Root except the
// Root itself is sealed. Child slices of sealed nodes are shared between
// versions and never written.
type Node struct {
	family   *Family
	props    Props
	children []*Node

	metrics      layout.Metrics
	constraints  layout.Constraints
	hasNewLayout bool
	layoutClean  bool

	sealed bool
}

// NewNode creates an unsealed node that needs layout. The children in f
// are sealed and re-parented under family.
func NewNode(family *Family, f Fragment) *Node {
	n := &Node{
		family:  family,
		props:   f.Props,
		metrics: layout.EmptyMetrics,
	}
	if f.Children != nil {
		n.children = n.adopt(slices.Clone(f.Children))
	}
	return n
}

// Clone returns a new unsealed node copying the receiver except for the
// fields set in f. The receiver is not modified. Replacing props or
// children makes the clone dirty; otherwise it inherits the receiver's
// layout state.
func (n *Node) Clone(f Fragment) *Node {
	c := n.shallowCopy()
	if f.Props != nil {
		c.props = f.Props
		c.layoutClean = false
	}
	if f.Children != nil {
		c.children = c.adopt(slices.Clone(f.Children))
		c.layoutClean = false
	}
	return c
}

func (n *Node) shallowCopy() *Node {
	return &Node{
		family:       n.family,
		props:        n.props,
		children:     n.children,
		metrics:      n.metrics,
		constraints:  n.constraints,
		hasNewLayout: n.hasNewLayout,
		layoutClean:  n.layoutClean,
	}
}

// withChild clones n with the child at index replaced. Used by the path
// rebuild, where exactly one slot changes.
func (n *Node) withChild(index int, child *Node) *Node {
	children := slices.Clone(n.children)
	children[index] = child
	c := n.shallowCopy()
	c.children = children
	c.layoutClean = false
	child.Seal()
	child.family.setParent(c.family)
	return c
}

// adopt seals children and points their families at n's family. The slice
// must be owned by n.
func (n *Node) adopt(children []*Node) []*Node {
	for _, child := range children {
		child.Seal()
		child.family.setParent(n.family)
	}
	return children
}

// Family returns the node's family.
func (n *Node) Family() *Family {
	return n.family
}

// Tag returns the family tag.
func (n *Node) Tag() layout.Tag {
	return n.family.tag
}

// Props returns the node's props.
func (n *Node) Props() Props {
	return n.props
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// LayoutMetrics returns the cached layout metrics.
func (n *Node) LayoutMetrics() layout.Metrics {
	return n.metrics
}

// LayoutConstraints returns the constraints the cached metrics were
// computed under.
func (n *Node) LayoutConstraints() layout.Constraints {
	return n.constraints
}

// HasNewLayout reports whether the engine produced metrics not yet copied
// onto the node.
func (n *Node) HasNewLayout() bool {
	return n.hasNewLayout
}

// IsLayoutClean reports whether the node's subtree has no pending layout.
func (n *Node) IsLayoutClean() bool {
	return n.layoutClean
}

// Sealed reports whether the node is published and immutable.
func (n *Node) Sealed() bool {
	return n.sealed
}

// Seal makes the node immutable. Sealing twice is allowed and does not
// write, so published nodes can be re-adopted from several goroutines.
func (n *Node) Seal() {
	if !n.sealed {
		n.sealed = true
	}
}

// AppendChild adds child at the end of the child list.
func (n *Node) AppendChild(child *Node) {
	n.ensureUnsealed("shadow.Node.AppendChild")
	children := make([]*Node, len(n.children), len(n.children)+1)
	copy(children, n.children)
	n.children = append(children, n.adopt([]*Node{child})...)
	n.layoutClean = false
}

// ReplaceChild swaps old for replacement in the child list. It reports
// false when old is not a child of n.
func (n *Node) ReplaceChild(old, replacement *Node) bool {
	n.ensureUnsealed("shadow.Node.ReplaceChild")
	index := slices.Index(n.children, old)
	if index < 0 {
		return false
	}
	children := slices.Clone(n.children)
	children[index] = replacement
	n.adopt(children[index : index+1])
	n.children = children
	n.layoutClean = false
	return true
}

// SetLayoutMetrics overwrites the cached metrics.
func (n *Node) SetLayoutMetrics(m layout.Metrics) {
	n.ensureUnsealed("shadow.Node.SetLayoutMetrics")
	n.metrics = m
}

// SetHasNewLayout sets the pending-layout flag.
func (n *Node) SetHasNewLayout(v bool) {
	n.ensureUnsealed("shadow.Node.SetHasNewLayout")
	n.hasNewLayout = v
}

func (n *Node) ensureUnsealed(op string) {
	if n.sealed {
		errors.Fatal(&errors.InvariantError{
			Op:     op,
			Kind:   errors.KindIllegalMutation,
			Tag:    int64(n.Tag()),
			Detail: "node is sealed",
		})
	}
}

func (n *Node) childIndex(family *Family) int {
	for i, child := range n.children {
		if child.family == family {
			return i
		}
	}
	return -1
}

// SameFamily reports whether a and b are versions of the same element.
func SameFamily(a, b *Node) bool {
	return a.family == b.family
}

// BoxProps implements layout.Box.
func (n *Node) BoxProps() any {
	return n.props
}

// ChildBoxes implements layout.Box.
func (n *Node) ChildBoxes() []layout.Box {
	boxes := make([]layout.Box, len(n.children))
	for i, child := range n.children {
		boxes[i] = child
	}
	return boxes
}

var _ layout.Box = (*Node)(nil)

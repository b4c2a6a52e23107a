package shadow

import (
	"fmt"
	"strings"

	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
)

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.children {
		walk(child, depth+1, fn)
	}
}

// Find returns the node with the given tag below n (n included), or nil.
func Find(n *Node, tag layout.Tag) *Node {
	var found *Node
	Walk(n, func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.Tag() == tag {
			found = node
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes below n, n included.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Describe returns an indented dump of the subtree for debugging. Nodes
// with padding or border also show their content box.
func Describe(n *Node) string {
	var sb strings.Builder
	Walk(n, func(node *Node, depth int) bool {
		f := node.metrics.Frame
		state := "dirty"
		if node.layoutClean {
			state = "clean"
		}
		fmt.Fprintf(&sb, "%s%s#%d [%g,%g %gx%g] %s",
			strings.Repeat("  ", depth), node.family.component, node.Tag(),
			f.Left, f.Top, f.Width(), f.Height(), state)
		if node.metrics.ContentInsets != (graphics.EdgeInsets{}) {
			c := node.metrics.ContentFrame()
			fmt.Fprintf(&sb, " content [%g,%g %gx%g]", c.Left, c.Top, c.Width(), c.Height())
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

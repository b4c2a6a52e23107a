package shadow

import (
	"slices"

	"github.com/go-drift/fabric/pkg/layout"
)

// LayoutIfNeeded runs engine over the tree if the root is dirty and merges
// the result into it. It returns false, without calling engine, when the
// root is already clean.
//
// The root must be unsealed: its metrics and child list are updated in
// place. Every other node that received new layout is replaced by a clone,
// so snapshots sharing those nodes are unaffected. When affected is not
// nil, the new versions of nodes whose metrics changed are appended to it,
// children before their parents, the root last.
func (r *Root) LayoutIfNeeded(engine layout.Engine, affected *[]*Node) bool {
	if r.layoutClean {
		return false
	}
	r.ensureUnsealed("shadow.Root.LayoutIfNeeded")

	props := r.RootProps()
	res := engine.Layout(r.Node, props.Constraints, props.Context)

	m := &merger{res: res, affected: affected, pending: len(res.Nodes)}
	if children := m.mergeChildren(r.children); children != nil {
		r.children = r.adopt(children)
	}
	r.constraints = res.RootConstraints
	r.SetHasNewLayout(res.RootHasNewLayout)

	// The root has no parent to hand it its metrics.
	if r.hasNewLayout {
		r.SetLayoutMetrics(res.Root)
		r.SetHasNewLayout(false)
		record(affected, r.Node)
	}

	r.layoutClean = true
	return true
}

// merger applies one engine result. pending counts reported tags not yet
// reached, so the walk stops once every reported node was merged.
type merger struct {
	res      layout.Result
	affected *[]*Node
	pending  int
}

// mergeChildren returns a copy of children with updated nodes swapped in,
// or nil when no child changed.
func (m *merger) mergeChildren(children []*Node) []*Node {
	var out []*Node
	for i, child := range children {
		updated := m.mergeNode(child)
		if updated == child {
			continue
		}
		if out == nil {
			out = slices.Clone(children)
		}
		out[i] = updated
	}
	return out
}

// mergeNode applies the engine result to n's subtree. A node the engine did
// not report keeps its own layout but is still cloned when one of its
// descendants was reported.
func (m *merger) mergeNode(n *Node) *Node {
	if m.pending == 0 {
		return n
	}
	computed, ok := m.res.Nodes[n.Tag()]
	if !ok {
		children := m.mergeChildren(n.children)
		if children == nil {
			return n
		}
		c := n.shallowCopy()
		c.children = c.adopt(children)
		return c
	}
	m.pending--

	children := m.mergeChildren(n.children)
	changed := !computed.Metrics.Equal(n.metrics)
	if children == nil && !changed && n.layoutClean && n.constraints == computed.Constraints {
		return n
	}

	c := n.shallowCopy()
	if children != nil {
		c.children = c.adopt(children)
	}
	c.metrics = computed.Metrics
	c.constraints = computed.Constraints
	c.hasNewLayout = false
	c.layoutClean = true
	if changed {
		record(m.affected, c)
	}
	return c
}

func record(affected *[]*Node, n *Node) {
	if affected != nil {
		*affected = append(*affected, n)
	}
}

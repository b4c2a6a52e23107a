package testing

import (
	"fmt"

	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/shadow"
)

// Finder locates nodes in a snapshot.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *shadow.Node) []*shadow.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*shadow.Node
	finder Finder
}

// Find evaluates finder against root.
func Find(root *shadow.Node, finder Finder) FinderResult {
	return FinderResult{nodes: finder.Evaluate(root), finder: finder}
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *shadow.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *shadow.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *shadow.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*shadow.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Frame returns the layout frame of the first match.
func (r FinderResult) Frame() graphics.Rect {
	return r.First().LayoutMetrics().Frame
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

type predicateFinder struct {
	description string
	fn          func(*shadow.Node) bool
}

func (f *predicateFinder) Evaluate(root *shadow.Node) []*shadow.Node {
	var matches []*shadow.Node
	shadow.Walk(root, func(n *shadow.Node, _ int) bool {
		if f.fn(n) {
			matches = append(matches, n)
		}
		return true
	})
	return matches
}

func (f *predicateFinder) Description() string {
	return f.description
}

// ByTag matches the node with the given tag.
func ByTag(tag layout.Tag) Finder {
	return &predicateFinder{
		description: fmt.Sprintf("ByTag(%d)", tag),
		fn:          func(n *shadow.Node) bool { return n.Tag() == tag },
	}
}

// ByComponent matches nodes whose family was created for component.
func ByComponent(component string) Finder {
	return &predicateFinder{
		description: fmt.Sprintf("ByComponent(%q)", component),
		fn:          func(n *shadow.Node) bool { return n.Family().Component() == component },
	}
}

// ByFamily matches the version of family in the snapshot.
func ByFamily(family *shadow.Family) Finder {
	return &predicateFinder{
		description: fmt.Sprintf("ByFamily(%s#%d)", family.Component(), family.Tag()),
		fn:          func(n *shadow.Node) bool { return n.Family() == family },
	}
}

// ByPredicate matches nodes for which fn returns true.
func ByPredicate(fn func(*shadow.Node) bool) Finder {
	return &predicateFinder{description: "ByPredicate(...)", fn: fn}
}

// Dirty matches nodes with pending layout.
func Dirty() Finder {
	return &predicateFinder{
		description: "Dirty()",
		fn:          func(n *shadow.Node) bool { return !n.IsLayoutClean() },
	}
}

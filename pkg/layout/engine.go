package layout

// Box is the engine's read-only view of a tree node.
type Box interface {
	// Tag identifies the node's family within its surface.
	Tag() Tag
	// BoxProps returns the node's opaque props.
	BoxProps() any
	// ChildBoxes returns the node's children in order.
	ChildBoxes() []Box
	// LayoutMetrics returns the metrics cached by the previous layout.
	LayoutMetrics() Metrics
	// LayoutConstraints returns the constraints the cached metrics were computed under.
	LayoutConstraints() Constraints
	// IsLayoutClean reports whether the node's subtree has no pending layout work.
	IsLayoutClean() bool
}

// Computed is the engine output for one recomputed node.
type Computed struct {
	Constraints Constraints
	Metrics     Metrics
}

// Result is the output of one engine pass.
type Result struct {
	// Root holds the metrics computed for the root.
	Root Metrics
	// RootHasNewLayout is set when Root differs from the root's cached metrics.
	RootHasNewLayout bool
	// RootConstraints are the constraints the root was laid out under.
	RootConstraints Constraints
	// Nodes holds every non-root node the engine laid out or repositioned.
	// Nodes absent from the map keep their cached layout.
	Nodes map[Tag]Computed
}

// Engine computes layout for a whole tree. Implementations must not retain
// the boxes after returning and must treat them as read-only.
type Engine interface {
	Layout(root Box, constraints Constraints, ctx Context) Result
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(root Box, constraints Constraints, ctx Context) Result

// Layout calls f.
func (f EngineFunc) Layout(root Box, constraints Constraints, ctx Context) Result {
	return f(root, constraints, ctx)
}

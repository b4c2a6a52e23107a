package layout

import "sync/atomic"

// Counting wraps an Engine and records how often it ran and how many
// non-root nodes it recomputed.
type Counting struct {
	Engine Engine

	calls      atomic.Int64
	recomputed atomic.Int64
}

// NewCounting wraps engine.
func NewCounting(engine Engine) *Counting {
	return &Counting{Engine: engine}
}

// Layout implements Engine.
func (c *Counting) Layout(root Box, constraints Constraints, ctx Context) Result {
	res := c.Engine.Layout(root, constraints, ctx)
	c.calls.Add(1)
	c.recomputed.Add(int64(len(res.Nodes)))
	return res
}

// Calls returns the number of Layout invocations.
func (c *Counting) Calls() int64 {
	return c.calls.Load()
}

// Recomputed returns the total number of non-root nodes reported.
func (c *Counting) Recomputed() int64 {
	return c.recomputed.Load()
}

// Reset zeroes both counters.
func (c *Counting) Reset() {
	c.calls.Store(0)
	c.recomputed.Store(0)
}

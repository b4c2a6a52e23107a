package shadow

import (
	"slices"

	"github.com/go-drift/fabric/pkg/errors"
)

// UpdateQueue batches per-element updates and applies them to a snapshot
// in one go.
//
// Updates are applied parents first so that a parent update which drops a
// child turns the child's own update into a skipped no-op instead of
// resurrecting it. Scheduling a family twice keeps only the latest
// transform.
type UpdateQueue struct {
	pending []pendingUpdate
	index   map[*Family]int // O(1) dedup
}

type pendingUpdate struct {
	family    *Family
	transform Transform
}

// ApplyStats reports the outcome of UpdateQueue.Apply.
type ApplyStats struct {
	Applied int
	Skipped int
}

// Schedule queues transform for family, replacing any earlier transform
// queued for the same family.
func (q *UpdateQueue) Schedule(family *Family, transform Transform) {
	if q.index == nil {
		q.index = make(map[*Family]int)
	}
	if i, ok := q.index[family]; ok {
		q.pending[i].transform = transform
		return
	}
	q.index[family] = len(q.pending)
	q.pending = append(q.pending, pendingUpdate{family: family, transform: transform})
}

// Len returns the number of queued updates.
func (q *UpdateQueue) Len() int {
	return len(q.pending)
}

// Apply applies every queued update to root and clears the queue. Updates
// whose family does not resolve in the snapshot being built are skipped.
// When nothing applies, root itself is returned.
func (q *UpdateQueue) Apply(root *Root) (*Root, ApplyStats) {
	pending := q.pending
	q.pending = nil
	q.index = nil

	depths := make(map[*Family]int, len(pending))
	for _, u := range pending {
		depths[u.family] = len(u.family.Ancestors(root.Node))
	}
	slices.SortStableFunc(pending, func(a, b pendingUpdate) int {
		return depths[a.family] - depths[b.family]
	})

	var stats ApplyStats
	current := root
	for _, u := range pending {
		next, err := CloneAlongPath(current, u.family, u.transform)
		if errors.Is(err, errors.ErrNotFound) {
			stats.Skipped++
			continue
		}
		current = next
		stats.Applied++
	}
	return current, stats
}

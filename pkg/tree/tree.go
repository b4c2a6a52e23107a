// Package tree publishes shadow tree snapshots for a surface.
//
// A ShadowTree owns the current published root of one surface. Writers
// derive a new root from the current one inside a Transaction; the tree
// lays it out, seals it and swaps it in atomically. Readers call Current
// and get an immutable snapshot without locking.
package tree

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/shadow"
)

// DefaultMaxAttempts bounds the compare-and-swap retries of a commit.
const DefaultMaxAttempts = 8

// Revision numbers published snapshots of one tree, starting at 1.
type Revision uint64

// Transaction derives the next root from the published one. It must not
// modify old. Returning old itself or nil means there is nothing to commit.
// A transaction can run more than once when commits race.
type Transaction func(old *shadow.Root) (*shadow.Root, error)

// CommitInfo describes a published commit.
type CommitInfo struct {
	Revision Revision
	Old      *shadow.Root
	New      *shadow.Root
	// Affected holds the nodes of New whose layout metrics changed.
	Affected []*shadow.Node
}

// Delegate is notified after each successful commit, on the committing
// goroutine.
type Delegate interface {
	ShadowTreeDidCommit(t *ShadowTree, info CommitInfo)
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func(t *ShadowTree, info CommitInfo)

// ShadowTreeDidCommit implements Delegate.
func (f DelegateFunc) ShadowTreeDidCommit(t *ShadowTree, info CommitInfo) {
	f(t, info)
}

// Options configures a ShadowTree. Zero values select defaults.
type Options struct {
	Engine      layout.Engine
	Delegate    Delegate
	Logger      *slog.Logger
	MaxAttempts int
}

type snapshot struct {
	root     *shadow.Root
	revision Revision
}

// ShadowTree is the publication point of one surface.
type ShadowTree struct {
	id          uuid.UUID
	surface     shadow.SurfaceID
	engine      layout.Engine
	delegate    Delegate
	logger      *slog.Logger
	maxAttempts int

	current atomic.Pointer[snapshot]
}

// New creates a tree for surface and publishes root as revision 1 after
// laying it out. root must be unsealed or already clean.
func New(surface shadow.SurfaceID, root *shadow.Root, opts Options) *ShadowTree {
	t := &ShadowTree{
		id:          uuid.New(),
		surface:     surface,
		engine:      opts.Engine,
		delegate:    opts.Delegate,
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
	}
	if t.engine == nil {
		t.engine = layout.NewBoxEngine()
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.maxAttempts <= 0 {
		t.maxAttempts = DefaultMaxAttempts
	}
	t.logger = t.logger.With(slog.String("surface", string(surface)), slog.String("tree_id", t.id.String()))

	root.LayoutIfNeeded(t.engine, nil)
	root.Seal()
	t.current.Store(&snapshot{root: root, revision: 1})
	return t
}

// ID returns the unique identifier of this tree instance.
func (t *ShadowTree) ID() uuid.UUID {
	return t.id
}

// Surface returns the surface the tree publishes.
func (t *ShadowTree) Surface() shadow.SurfaceID {
	return t.surface
}

// Current returns the published root. It is sealed and safe to read from
// any goroutine.
func (t *ShadowTree) Current() *shadow.Root {
	return t.current.Load().root
}

// Revision returns the revision of the published root.
func (t *ShadowTree) Revision() Revision {
	return t.current.Load().revision
}

// Commit runs tx against the published root and publishes its result.
//
// The new root is laid out and sealed before it is swapped in. If another
// commit was published in the meantime the work is discarded and tx runs
// again against the newer root, up to the configured number of attempts;
// after that the error wraps errors.ErrCommitConflict. errors.ErrNotFound
// from tx is returned unwrapped. When tx has nothing to commit, the current
// revision is returned and nothing is published.
func (t *ShadowTree) Commit(ctx context.Context, tx Transaction) (Revision, error) {
	ctx, span := tracer.Start(ctx, "tree.ShadowTree.Commit",
		trace.WithAttributes(attribute.String("surface", string(t.surface))),
	)
	defer span.End()

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "context done")
			return 0, err
		}

		old := t.current.Load()
		next, err := tx(old.root)
		if errors.Is(err, errors.ErrNotFound) {
			commitTotal.WithLabelValues("not_found").Inc()
			span.SetStatus(codes.Ok, "family not found")
			return 0, err
		}
		if err != nil {
			commitTotal.WithLabelValues("error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "transaction failed")
			return 0, &errors.TreeError{Op: "tree.Commit", Kind: errors.KindCommit, Surface: string(t.surface), Err: err}
		}
		if next == nil || next == old.root {
			commitTotal.WithLabelValues("noop").Inc()
			span.SetAttributes(attribute.Bool("noop", true))
			return old.revision, nil
		}

		affected, err := t.layout(ctx, next)
		if err != nil {
			commitTotal.WithLabelValues("error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "layout failed")
			lerr := &errors.TreeError{Op: "tree.Commit", Kind: errors.KindLayout, Surface: string(t.surface), Err: err}
			errors.Report(lerr)
			return 0, lerr
		}
		next.Seal()

		published := &snapshot{root: next, revision: old.revision + 1}
		if !t.current.CompareAndSwap(old, published) {
			commitRetries.Inc()
			t.logger.Debug("commit lost race", slog.Int("attempt", attempt), slog.Uint64("base_revision", uint64(old.revision)))
			continue
		}

		commitTotal.WithLabelValues("committed").Inc()
		affectedNodes.Observe(float64(len(affected)))
		span.SetAttributes(
			attribute.Int64("revision", int64(published.revision)),
			attribute.Int("attempts", attempt),
			attribute.Int("affected", len(affected)),
		)
		t.logger.Debug("commit published",
			slog.Uint64("revision", uint64(published.revision)),
			slog.Int("affected", len(affected)),
		)
		t.notify(CommitInfo{
			Revision: published.revision,
			Old:      old.root,
			New:      next,
			Affected: affected,
		})
		return published.revision, nil
	}

	commitTotal.WithLabelValues("conflict").Inc()
	err := &errors.TreeError{
		Op:      "tree.Commit",
		Kind:    errors.KindCommit,
		Surface: string(t.surface),
		Err:     fmt.Errorf("%w after %d attempts", errors.ErrCommitConflict, t.maxAttempts),
	}
	errors.Report(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, "commit conflict")
	return 0, err
}

// notify calls the delegate. A panicking delegate is reported; the commit
// it observes is already published.
func (t *ShadowTree) notify(info CommitInfo) {
	if t.delegate == nil {
		return
	}
	defer errors.Recover("tree.ShadowTree.notify")
	t.delegate.ShadowTreeDidCommit(t, info)
}

// layout runs the engine on root. A panicking engine is returned as an
// error; the unpublished root is then dropped.
func (t *ShadowTree) layout(ctx context.Context, root *shadow.Root) (affected []*shadow.Node, err error) {
	_, span := tracer.Start(ctx, "tree.ShadowTree.layout")
	defer span.End()
	defer errors.RecoverTo("tree.ShadowTree.layout", &err)

	start := time.Now()
	ran := root.LayoutIfNeeded(t.engine, &affected)
	if ran {
		layoutDuration.Observe(time.Since(start).Seconds())
	}
	span.SetAttributes(attribute.Bool("ran", ran), attribute.Int("affected", len(affected)))
	return affected, nil
}

// CommitFamily replaces the node of family in the published root with
// transform's result.
func (t *ShadowTree) CommitFamily(ctx context.Context, family *shadow.Family, transform shadow.Transform) (Revision, error) {
	return t.Commit(ctx, func(old *shadow.Root) (*shadow.Root, error) {
		return shadow.CloneAlongPath(old, family, transform)
	})
}

// CommitQueue commits the updates produced by fill in one revision. fill
// is called with an empty queue on every attempt.
func (t *ShadowTree) CommitQueue(ctx context.Context, fill func(q *shadow.UpdateQueue)) (Revision, shadow.ApplyStats, error) {
	var stats shadow.ApplyStats
	rev, err := t.Commit(ctx, func(old *shadow.Root) (*shadow.Root, error) {
		var q shadow.UpdateQueue
		fill(&q)
		var next *shadow.Root
		next, stats = q.Apply(old)
		return next, nil
	})
	return rev, stats, err
}

// ApplyConstraints re-binds the published root to new layout constraints
// and context and lays it out again.
func (t *ShadowTree) ApplyConstraints(ctx context.Context, c layout.Constraints, lctx layout.Context) (Revision, error) {
	return t.Commit(ctx, func(old *shadow.Root) (*shadow.Root, error) {
		if old.Constraints() == c && old.Context() == lctx {
			return old, nil
		}
		return old.CloneWithConstraints(c, lctx), nil
	})
}

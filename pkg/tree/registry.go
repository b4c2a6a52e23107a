package tree

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/shadow"
)

// Registry tracks the trees of all live surfaces.
type Registry struct {
	mu    sync.RWMutex
	trees map[shadow.SurfaceID]*ShadowTree
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{trees: make(map[shadow.SurfaceID]*ShadowTree)}
}

// Add registers t under its surface. It fails if the surface is taken.
func (r *Registry) Add(t *ShadowTree) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trees[t.Surface()]; ok {
		return &errors.TreeError{
			Op:      "tree.Registry.Add",
			Kind:    errors.KindConfig,
			Surface: string(t.Surface()),
			Err:     errors.New("surface already registered"),
		}
	}
	r.trees[t.Surface()] = t
	return nil
}

// Remove unregisters surface and returns its tree.
func (r *Registry) Remove(surface shadow.SurfaceID) (*ShadowTree, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trees[surface]
	delete(r.trees, surface)
	return t, ok
}

// Get returns the tree of surface.
func (r *Registry) Get(surface shadow.SurfaceID) (*ShadowTree, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trees[surface]
	return t, ok
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trees)
}

// Visit calls fn for each tree in surface order until fn returns false.
// The registry is not locked while fn runs.
func (r *Registry) Visit(fn func(t *ShadowTree) bool) {
	for _, t := range r.snapshot() {
		if !fn(t) {
			return
		}
	}
}

func (r *Registry) snapshot() []*ShadowTree {
	r.mu.RLock()
	trees := make([]*ShadowTree, 0, len(r.trees))
	for _, t := range r.trees {
		trees = append(trees, t)
	}
	r.mu.RUnlock()
	slices.SortFunc(trees, func(a, b *ShadowTree) int {
		switch {
		case a.surface < b.surface:
			return -1
		case a.surface > b.surface:
			return 1
		}
		return 0
	})
	return trees
}

// CommitAll commits on every registered tree concurrently. txFor returns
// the transaction for a tree, or nil to leave it alone. Trees whose
// transaction reports errors.ErrNotFound are left out of the result
// without failing the batch. The first other error cancels the
// remaining commits. A panicking transaction fails the batch with
// errors.KindPanic.
func (r *Registry) CommitAll(ctx context.Context, txFor func(t *ShadowTree) Transaction) (map[shadow.SurfaceID]Revision, error) {
	var mu sync.Mutex
	revisions := make(map[shadow.SurfaceID]Revision)

	g, gCtx := errgroup.WithContext(ctx)
	for _, t := range r.snapshot() {
		tx := txFor(t)
		if tx == nil {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if pe, ok := err.(*errors.PanicError); ok {
					err = &errors.TreeError{Op: "tree.CommitAll", Kind: errors.KindPanic, Surface: string(t.surface), Err: pe}
				}
			}()
			defer errors.RecoverTo("tree.Registry.CommitAll", &err)

			rev, err := t.Commit(gCtx, tx)
			if errors.Is(err, errors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			revisions[t.Surface()] = rev
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return revisions, nil
}

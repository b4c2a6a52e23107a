package shadow

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-drift/fabric/pkg/layout"
)

// SurfaceID identifies the surface a family belongs to.
type SurfaceID string

// Family is the version-independent identity of a logical element. Every
// Node version of the element points at the same Family.
//
// The parent link is updated whenever a node of this family is attached
// under a node of another family. It is only a lookup hint and never keeps
// any node alive.
type Family struct {
	tag       layout.Tag
	surface   SurfaceID
	component string

	mu     sync.RWMutex
	parent *Family
}

// NewFamily creates a family. Tags must be unique within a surface.
func NewFamily(tag layout.Tag, surface SurfaceID, component string) *Family {
	return &Family{tag: tag, surface: surface, component: component}
}

// Tag returns the element tag.
func (f *Family) Tag() layout.Tag {
	return f.tag
}

// Surface returns the surface the element belongs to.
func (f *Family) Surface() SurfaceID {
	return f.surface
}

// Component returns the component name the element was created for.
func (f *Family) Component() string {
	return f.component
}

// Parent returns the family of the element's most recent parent, or nil
// for a root or an element that was never attached.
func (f *Family) Parent() *Family {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.parent
}

func (f *Family) setParent(parent *Family) {
	f.mu.Lock()
	f.parent = parent
	f.mu.Unlock()
}

// Depth returns the number of parent links between f and its top family.
// Links are hints; use Ancestors for the depth within a snapshot.
func (f *Family) Depth() int {
	return len(f.links())
}

// links follows the parent links from f. Clones that were never published
// can leave a cycle behind, so the walk stops at the first repeat.
func (f *Family) links() []*Family {
	var chain []*Family
	for p := f.Parent(); p != nil && p != f && !slices.Contains(chain, p); p = p.Parent() {
		chain = append(chain, p)
	}
	return chain
}

// Ancestor is one step of a resolved path: the parent node and the index
// of the next node on the path among its children.
type Ancestor struct {
	Parent *Node
	Index  int
}

// Ancestors resolves the path from root down to the node of this family.
// The result is ordered from the node's immediate parent up to root. It is
// empty when the family is root's own family or has no node in the tree
// rooted at root.
//
// The parent links are tried first. They describe the most recent
// attachment, which may belong to another snapshot, so a miss falls back to
// a search of root's tree.
func (f *Family) Ancestors(root *Node) []Ancestor {
	if root == nil || root.family == f {
		return nil
	}
	if path := f.linkedPath(root); path != nil {
		return path
	}
	path, _ := f.search(root, nil)
	return path
}

func (f *Family) linkedPath(root *Node) []Ancestor {
	chain := f.links()
	if len(chain) == 0 || chain[len(chain)-1] != root.family {
		return nil
	}

	path := make([]Ancestor, len(chain))
	node := root
	for i := len(chain) - 1; i >= 0; i-- {
		next := f
		if i > 0 {
			next = chain[i-1]
		}
		index := node.childIndex(next)
		if index < 0 {
			return nil
		}
		path[i] = Ancestor{Parent: node, Index: index}
		node = node.children[index]
	}
	return path
}

// search looks for f below n depth first. below holds the path from the
// top of the search down to n, nearest last.
func (f *Family) search(n *Node, below []Ancestor) ([]Ancestor, bool) {
	for i, child := range n.children {
		step := append(below, Ancestor{Parent: n, Index: i})
		if child.family == f {
			path := slices.Clone(step)
			slices.Reverse(path)
			return path, true
		}
		if path, ok := f.search(child, step); ok {
			return path, true
		}
	}
	return nil, false
}

// FamilyRegistry hands out families with unique, increasing tags for one
// surface.
type FamilyRegistry struct {
	surface SurfaceID
	next    atomic.Int64
}

// NewFamilyRegistry returns a registry whose first tag is 1.
func NewFamilyRegistry(surface SurfaceID) *FamilyRegistry {
	return &FamilyRegistry{surface: surface}
}

// Surface returns the registry's surface.
func (r *FamilyRegistry) Surface() SurfaceID {
	return r.surface
}

// NewFamily allocates a family with the next free tag.
func (r *FamilyRegistry) NewFamily(component string) *Family {
	return NewFamily(layout.Tag(r.next.Add(1)), r.surface, component)
}

// Reserve makes sure tags up to and including tag are never handed out.
// Used when tags come from an external description.
func (r *FamilyRegistry) Reserve(tag layout.Tag) {
	for {
		cur := r.next.Load()
		if int64(tag) <= cur || r.next.CompareAndSwap(cur, int64(tag)) {
			return
		}
	}
}

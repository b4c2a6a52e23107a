package shadow

import (
	"fmt"

	"github.com/go-drift/fabric/pkg/errors"
)

// Transform produces the replacement for a node. It receives the sealed
// current version and must not try to modify it; use Clone instead.
type Transform func(old *Node) *Node

// CloneAlongPath returns a new version of root in which the node of family
// is replaced by transform's result. Only the ancestors of that node are
// rebuilt; every other subtree is shared with root.
//
// It returns errors.ErrNotFound, without calling transform, when family has
// no node below root. The returned root is unsealed so a layout pass can
// run on it before publication.
func CloneAlongPath(root *Root, family *Family, transform Transform) (*Root, error) {
	ancestors := family.Ancestors(root.Node)
	if len(ancestors) == 0 {
		return nil, errors.ErrNotFound
	}

	nearest := ancestors[0]
	old := nearest.Parent.children[nearest.Index]
	child := transform(old)
	if child == nil {
		errors.Fatal(&errors.InvariantError{
			Op:     "shadow.CloneAlongPath",
			Kind:   errors.KindIllegalMutation,
			Tag:    int64(family.tag),
			Detail: "transform returned nil",
		})
	}

	for _, a := range ancestors {
		slot := a.Parent.children[a.Index]
		if !SameFamily(slot, child) {
			errors.Fatal(&errors.InvariantError{
				Op:   "shadow.CloneAlongPath",
				Kind: errors.KindFamilyMismatch,
				Tag:  int64(child.Tag()),
				Detail: fmt.Sprintf("slot %d of tag %d holds tag %d",
					a.Index, a.Parent.Tag(), slot.Tag()),
			})
		}
		child = a.Parent.withChild(a.Index, child)
	}

	return asRoot(child), nil
}

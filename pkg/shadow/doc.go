// Package shadow implements the persistent layout tree.
//
// A tree version is a Root: the top Node of an immutable, structurally
// shared tree. Nodes are built unsealed, and are sealed as soon as they are
// attached under another node. Sealed nodes never change again; producing a
// new version means cloning.
//
// # Versions
//
// CloneAlongPath replaces the node of one Family and rebuilds only its
// ancestors. Every subtree off that path is shared by reference between the
// old and the new Root:
//
//	next, err := shadow.CloneAlongPath(root, family, func(old *shadow.Node) *shadow.Node {
//	    return old.Clone(shadow.Fragment{Props: newProps})
//	})
//	if errors.Is(err, errors.ErrNotFound) {
//	    // the element is no longer part of this version
//	}
//
// # Layout
//
// A new Root is dirty until LayoutIfNeeded runs the layout engine over it.
// The pass merges results copy-on-write: nodes the engine did not touch stay
// shared, nodes with new geometry are cloned and reported as affected.
//
//	var affected []*shadow.Node
//	if next.LayoutIfNeeded(engine, &affected) {
//	    // affected holds the new versions of nodes whose frame changed
//	}
//	next.Seal()
//
// # Contract violations
//
// Writing to a sealed node and rebuilding a path against the wrong snapshot
// are programming errors. They are reported through errors.Fatal and panic.
package shadow

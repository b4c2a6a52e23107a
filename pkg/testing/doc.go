// Package testing provides helpers for testing shadow trees.
//
// # Building Trees
//
// TreeBuilder creates nodes whose families are looked up by component name:
//
//	b := fabrictest.NewTreeBuilder("test")
//	root := b.Root(layout.Tight(graphics.Size{Width: 100, Height: 100}),
//	    b.Node("Header", fabrictest.Height(20)),
//	    b.Node("Body", layout.Style{Grow: 1}),
//	)
//	next, err := shadow.CloneAlongPath(root, b.Family("Header"), transform)
//
// # Finding Nodes
//
//	header := fabrictest.Find(root.Node, fabrictest.ByComponent("Header")).First()
//
// # Snapshot Testing
//
// Capture the laid-out tree and compare it with a golden file:
//
//	fabrictest.Capture(root.Node).MatchesFile(t, "testdata/header.snapshot.yaml")
//
// Update snapshots with:
//
//	FABRIC_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fabrictest "github.com/go-drift/fabric/pkg/testing"
package testing

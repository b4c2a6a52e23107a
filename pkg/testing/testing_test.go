package testing

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/shadow"
)

var viewport = layout.Tight(graphics.Size{Width: 100, Height: 200})

func laidOutChain(t *testing.T, depth int) (*TreeBuilder, *shadow.Root, []*shadow.Family) {
	t.Helper()
	b := NewTreeBuilder("test")
	root, families := b.Chain(viewport, depth)
	if !root.LayoutIfNeeded(layout.NewBoxEngine(), nil) {
		t.Fatal("expected a layout pass on a fresh root")
	}
	root.Seal()
	return b, root, families
}

func TestTreeBuilder_Chain(t *testing.T) {
	_, root, families := laidOutChain(t, 3)

	if len(families) != 3 {
		t.Fatalf("expected 3 families, got %d", len(families))
	}
	// Root, N1..N3 and one sibling per level.
	if got := shadow.Count(root.Node); got != 7 {
		t.Errorf("expected 7 nodes, got %d", got)
	}
	if d := families[2].Depth(); d != 3 {
		t.Errorf("expected N3 at depth 3, got %d", d)
	}
	if n := len(families[2].Ancestors(root.Node)); n != 3 {
		t.Errorf("expected 3 ancestors for N3, got %d", n)
	}
}

func TestTreeBuilder_SameComponentSameFamily(t *testing.T) {
	b := NewTreeBuilder("test")
	a := b.Node("A", Height(1))
	a2 := b.Node("A", Height(2))
	if !shadow.SameFamily(a, a2) {
		t.Error("expected nodes of one component to share a family")
	}
	if b.Family("A") != a.Family() {
		t.Error("Family should return the existing family")
	}
}

func TestFinders(t *testing.T) {
	b, root, _ := laidOutChain(t, 2)

	n2 := Find(root.Node, ByComponent("N2"))
	if n2.Count() != 1 {
		t.Fatalf("expected one N2, got %d", n2.Count())
	}
	if got := n2.Frame(); got != graphics.RectFromLTWH(0, 0, 100, 10) {
		t.Errorf("unexpected N2 frame %v", got)
	}
	if !Find(root.Node, ByTag(b.Family("S1").Tag())).Exists() {
		t.Error("expected to find S1 by tag")
	}
	if Find(root.Node, ByTag(999)).FirstOrNil() != nil {
		t.Error("expected no match for an unknown tag")
	}
	if Find(root.Node, Dirty()).Exists() {
		t.Error("expected a laid-out tree to be clean")
	}
	leaves := Find(root.Node, ByPredicate(func(n *shadow.Node) bool { return len(n.Children()) == 0 }))
	if leaves.Count() != 3 {
		t.Errorf("expected 3 leaves, got %d", leaves.Count())
	}
	if leaves.At(0).Family() != b.Family("N2") {
		t.Errorf("expected pre-order traversal, first leaf is %s", leaves.At(0).Family().Component())
	}
}

func TestFinderResult_FirstPanics(t *testing.T) {
	_, root, _ := laidOutChain(t, 1)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(fmt.Sprint(r), `ByComponent("Missing")`) {
			t.Errorf("panic should describe the finder, got %v", r)
		}
	}()
	Find(root.Node, ByComponent("Missing")).First()
}

func TestPathCopySharesSiblings(t *testing.T) {
	b, root, families := laidOutChain(t, 3)
	leaf := families[2]

	next, err := shadow.CloneAlongPath(root, leaf, func(old *shadow.Node) *shadow.Node {
		return old.Clone(shadow.Fragment{Props: b.Node("N3", Height(10)).Props()})
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, sibling := range []string{"S1", "S2", "S3"} {
		before := Find(root.Node, ByComponent(sibling)).First()
		after := Find(next.Node, ByComponent(sibling)).First()
		if before != after {
			t.Errorf("%s was copied", sibling)
		}
	}
	if Find(next.Node, Dirty()).Count() != 4 {
		t.Errorf("expected Root, N1, N2 and N3 to be dirty")
	}
}

func TestCapture(t *testing.T) {
	_, root, _ := laidOutChain(t, 1)
	snap := Capture(root.Node)

	if snap.Root.ID != "Root#3" {
		t.Errorf("unexpected root id %q", snap.Root.ID)
	}
	if snap.Root.Frame != [4]float64{0, 0, 100, 200} {
		t.Errorf("unexpected root frame %v", snap.Root.Frame)
	}
	if len(snap.Root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(snap.Root.Children))
	}
	if got := snap.Root.Children[1].Frame; got != [4]float64{0, 10, 100, 10} {
		t.Errorf("unexpected S1 frame %v", got)
	}
	if !strings.Contains(snap.String(), "id: N1#1") {
		t.Errorf("expected YAML output to contain N1, got:\n%s", snap)
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	_, root, _ := laidOutChain(t, 2)
	snap := Capture(root.Node)
	path := filepath.Join(t.TempDir(), "golden", "chain.snapshot.yaml")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	snap.MatchesFile(t, path)

	changed := Capture(root.Node)
	changed.Root.Children[0].Frame[3] = 99
	rec := &recordingT{name: t.Name()}
	changed.MatchesFile(rec, path)
	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "+") {
		t.Errorf("expected one mismatch report, got %v", rec.errors)
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	_, root, _ := laidOutChain(t, 1)
	rec := &recordingT{name: "TestMissing"}
	Capture(root.Node).MatchesFile(rec, filepath.Join(t.TempDir(), "none.yaml"))

	if len(rec.fatals) != 1 || !strings.Contains(rec.fatals[0], "FABRIC_UPDATE_SNAPSHOTS=1") {
		t.Errorf("expected update instructions, got %v", rec.fatals)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	_, root, _ := laidOutChain(t, 1)
	a := Capture(root.Node)
	b := Capture(root.Node)
	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}

	b.Root.Children[0].Hidden = true
	diff := a.Diff(b)
	if !strings.Contains(diff, "-") || !strings.Contains(diff, "hidden: true") {
		t.Errorf("expected diff to mention the hidden flag, got:\n%s", diff)
	}
}

type recordingT struct {
	name   string
	errors []string
	fatals []string
}

func (r *recordingT) Helper()      {}
func (r *recordingT) Name() string { return r.name }

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

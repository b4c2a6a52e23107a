package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/fabric/pkg/scene"
	"github.com/go-drift/fabric/pkg/shadow"
	"github.com/go-drift/fabric/pkg/tree"
)

var (
	updatePatches []string
	updateYAML    bool
)

var updateCmd = &cobra.Command{
	Use:   "update SCENE --set TAG=KEY:VALUE[,KEY:VALUE]",
	Short: "Apply style patches to a scene and report what changed",
	Long: `Build a scene, then commit style patches to it in one revision.

Prints the nodes that received new layout, the updated tree and how many
nodes were reused from the previous revision.

Patch keys:
  width, height, grow   non-negative numbers
  display               flex or none

Examples:
  fabric update scene.yaml --set 10=height:80
  fabric update scene.yaml --set 10=width:50,height:20 --set 12=display:none`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringArrayVar(&updatePatches, "set", nil,
		"Style patch TAG=KEY:VALUE[,KEY:VALUE] (repeatable)")
	updateCmd.Flags().BoolVar(&updateYAML, "yaml", false,
		"Print the updated tree as a YAML snapshot")
	_ = updateCmd.MarkFlagRequired("set")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	patches := make([]scene.Patch, 0, len(updatePatches))
	for _, s := range updatePatches {
		p, err := scene.ParsePatch(s)
		if err != nil {
			return err
		}
		patches = append(patches, p)
	}

	var committed *tree.CommitInfo
	t, families, err := openScene(args[0], tree.DelegateFunc(func(_ *tree.ShadowTree, info tree.CommitInfo) {
		committed = &info
	}))
	if err != nil {
		return err
	}
	for _, p := range patches {
		if _, ok := families[p.Tag]; !ok {
			return fmt.Errorf("no node with tag %d in %s", p.Tag, args[0])
		}
	}

	rev, stats, err := t.CommitQueue(cmd.Context(), func(q *shadow.UpdateQueue) {
		for _, p := range patches {
			q.Schedule(families[p.Tag], p.Transform())
		}
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "revision %d: %d applied, %d skipped\n", rev, stats.Applied, stats.Skipped)
	if committed == nil {
		fmt.Fprintln(out, "nothing changed")
		return nil
	}

	fmt.Fprintf(out, "%d nodes with new layout:\n", len(committed.Affected))
	for _, n := range committed.Affected {
		f := n.LayoutMetrics().Frame
		fmt.Fprintf(out, "  %s#%d [%g,%g %gx%g]\n", n.Family().Component(), n.Tag(), f.Left, f.Top, f.Width(), f.Height())
	}
	shared, total := reuse(committed.Old, committed.New)
	fmt.Fprintf(out, "%d of %d nodes reused from revision %d\n\n", shared, total, rev-1)
	printTree(out, committed.New, updateYAML)
	return nil
}

// reuse counts the nodes of next that are shared with prev.
func reuse(prev, next *shadow.Root) (shared, total int) {
	old := make(map[*shadow.Node]bool)
	shadow.Walk(prev.Node, func(n *shadow.Node, _ int) bool {
		old[n] = true
		return true
	})
	shadow.Walk(next.Node, func(n *shadow.Node, _ int) bool {
		if old[n] {
			size := shadow.Count(n)
			shared += size
			total += size
			return false
		}
		total++
		return true
	})
	return shared, total
}

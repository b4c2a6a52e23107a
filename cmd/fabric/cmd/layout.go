package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/scene"
	"github.com/go-drift/fabric/pkg/shadow"
	fabrictest "github.com/go-drift/fabric/pkg/testing"
	"github.com/go-drift/fabric/pkg/tree"
)

var layoutYAML bool

var layoutCmd = &cobra.Command{
	Use:   "layout SCENE",
	Short: "Build a scene and print its layout",
	Long: `Build the shadow tree described by a scene file, lay it out and print
the resulting frames.

Examples:
  fabric layout scene.yaml
  fabric layout scene.yaml --yaml > testdata/scene.snapshot.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().BoolVar(&layoutYAML, "yaml", false,
		"Print a YAML snapshot instead of the indented dump")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	t, _, err := openScene(args[0], nil)
	if err != nil {
		return err
	}
	printTree(cmd.OutOrStdout(), t.Current(), layoutYAML)
	return nil
}

// openScene loads path, fills in configured defaults and publishes the
// scene as the first revision of a new tree.
func openScene(path string, delegate tree.Delegate) (*tree.ShadowTree, map[layout.Tag]*shadow.Family, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if s.Surface == "" {
		s.Surface = cfg.Surface
	}
	if s.Scale == 0 {
		s.Scale = cfg.Scale
	}

	surface := shadow.SurfaceID(s.Surface)
	root, families, err := s.Build(shadow.NewFamilyRegistry(surface))
	if err != nil {
		return nil, nil, err
	}
	t := tree.New(surface, root, tree.Options{
		Delegate:    delegate,
		Logger:      logger,
		MaxAttempts: cfg.MaxAttempts,
	})
	logger.Debug("scene loaded", "path", path, "nodes", shadow.Count(root.Node))
	return t, families, nil
}

func printTree(w io.Writer, root *shadow.Root, asYAML bool) {
	if asYAML {
		fmt.Fprint(w, fabrictest.Capture(root.Node).String())
		return
	}
	fmt.Fprint(w, shadow.Describe(root.Node))
}

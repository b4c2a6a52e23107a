// Package cmd implements the fabric CLI commands.
//
// The root command loads the optional fabric.yaml of the enclosing Go
// module and installs the logger before dispatching to a subcommand
// (layout, update, version).
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/fabric/cmd/fabric/internal/config"
	"github.com/go-drift/fabric/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	verbose bool
	cfg     *config.Resolved
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "fabric",
	Short: "Lay out and update persistent shadow trees",
	Long: `fabric builds shadow trees from YAML scene files, lays them out and
applies incremental updates the way a renderer commit would.

Settings are read from fabric.yaml in the root of the enclosing Go module,
if there is one.

Examples:
  fabric layout scene.yaml
  fabric update scene.yaml --set 10=height:80
  fabric version`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.FindProjectRoot()
		if err != nil {
			dir = ""
		}
		if cfg, err = config.Resolve(dir); err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: verbose})
		logger.Debug("config resolved",
			slog.String("root", cfg.Root),
			slog.String("surface", cfg.Surface),
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

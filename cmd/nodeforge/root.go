// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"nodeforge/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// cfgFile allows specifying a custom config file
	cfgFile string
	// cfg is the loaded configuration, available to every subcommand.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "nodeforge",
		Short: "Per-node execution environments and plugin installs",
		Long: TitleStyle.Render("nodeforge") + SubtitleStyle.Render(" - per-node execution environments for pipeline work") + `

nodeforge decides which isolated runtime (container, conda environment,
virtualenv, or the host process) runs each unit of pipeline work, builds
that runtime on demand, and caches it by the content of its spec file.
It also installs plugins - bundles of node definitions and pipeline
templates - symlinked for local development or vendored from remote
repositories.

` + SubtitleStyle.Render("Examples:") + `
  nodeforge plugin install ./my-plugin     Symlink a local plugin
  nodeforge plugin list                    List installed plugins
  nodeforge env build Dockerfile           Build a container environment
  nodeforge env status env.yaml            Check whether an environment exists
  nodeforge config show                    Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/nodeforge/config.toml)")

	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command with fang's styling and signal handling.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// initRootConfig loads the configuration before any subcommand runs.
func initRootConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		loaded = config.DefaultConfig()
	}
	cfg = loaded
}

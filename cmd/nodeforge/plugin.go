// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nodeforge/internal/plugin"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Install and manage plugins",
	Long: `Install plugins from local directories (symlinked, live) or remote
repositories (cloned and vendored), list what is installed, and browse
the catalog of known plugin sources.`,
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install <source>",
	Short: "Install a plugin from a local path or remote URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		installer := plugin.NewInstaller(cfg)
		report, err := installer.Install(cmd.Context(), args[0])
		if report != nil {
			for _, entry := range report.Installed {
				mode := "copied"
				if entry.Linked {
					mode = "linked"
				}
				log.Info("installed", "plugin", entry.PluginName, "mode", mode, "path", entry.NodesPath)
			}
		}
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("✓ ") + "installed " +
			NameStyle.Render(fmt.Sprintf("%d plugin(s)", len(report.Installed))) +
			" from " + report.Source.Root)
		return nil
	},
}

var pluginUninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := plugin.NewInstaller(cfg).Uninstall(args[0]); err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("✓ ") + "uninstalled " + NameStyle.Render(args[0]))
		return nil
	},
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		names, err := plugin.NewInstaller(cfg).ListInstalled()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println(SubtitleStyle.Render("no plugins installed"))
			return nil
		}
		for _, name := range names {
			fmt.Println(NameStyle.Render(name))
		}
		return nil
	},
}

var pluginCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the catalog of known plugin sources",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		catalog, err := plugin.LoadCatalog(cfg.Plugins.CatalogFile)
		if err != nil {
			return err
		}
		if len(catalog.Plugins) == 0 {
			fmt.Println(SubtitleStyle.Render("catalog is empty"))
			return nil
		}
		for _, entry := range catalog.Plugins {
			line := NameStyle.Render(entry.Name) + "  " + entry.Source
			if entry.Description != "" {
				line += "\n  " + SubtitleStyle.Render(entry.Description)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	pluginCmd.AddCommand(pluginInstallCmd)
	pluginCmd.AddCommand(pluginUninstallCmd)
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginCatalogCmd)
}

// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nodeforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		rendered, err := cfg.Render()
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the data layout",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			path = filepath.Join(cfgDir, config.ConfigFileName)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		if err := cfg.EnsureLayout(); err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("✓ ") + "wrote " + NameStyle.Render(path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

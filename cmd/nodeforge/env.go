// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nodeforge/internal/container"
	"nodeforge/internal/env"
)

var envKindFlag string

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Build and inspect execution environments",
	Long: `Environments are keyed by the content of their spec file: a
Dockerfile builds a container image, a YAML declaration a conda
environment, a requirements list a virtualenv. Identical content always
maps to the same environment name.`,
}

var envBuildCmd = &cobra.Command{
	Use:   "build <spec-file>",
	Short: "Build the environment for a spec file if it is missing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providerForSpec(args[0])
		if err != nil {
			return err
		}
		name, err := provider.EnvName()
		if err != nil {
			return err
		}

		built := false
		err = env.NewEnsurer().EnsureBuilt(cmd.Context(), provider, os.Stdout, func() {
			built = true
			log.Info("building environment", "name", name, "kind", provider.Kind())
		})
		if err != nil {
			return err
		}
		if built {
			fmt.Println(SuccessStyle.Render("✓ ") + "built " + NameStyle.Render(name))
		} else {
			fmt.Println(SubtitleStyle.Render("already built: ") + NameStyle.Render(name))
		}
		return nil
	},
}

var envStatusCmd = &cobra.Command{
	Use:   "status <spec-file>",
	Short: "Report whether a spec file's environment exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providerForSpec(args[0])
		if err != nil {
			return err
		}
		name, err := provider.EnvName()
		if err != nil {
			return err
		}
		built, err := provider.IsBuilt(cmd.Context())
		if err != nil {
			return err
		}
		state := ErrorStyle.Render("missing")
		if built {
			state = SuccessStyle.Render("built")
		}
		fmt.Printf("%s  %s  %s\n", NameStyle.Render(name), provider.Kind(), state)
		return nil
	},
}

var envRemoveCmd = &cobra.Command{
	Use:   "remove <spec-file>",
	Short: "Remove a spec file's environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := providerForSpec(args[0])
		if err != nil {
			return err
		}
		name, err := provider.EnvName()
		if err != nil {
			return err
		}

		switch p := provider.(type) {
		case *env.DockerProvider:
			engine, err := containerEngine()
			if err != nil {
				return err
			}
			if err := engine.RemoveImage(cmd.Context(), name, false); err != nil {
				return err
			}
		case *env.VenvProvider:
			if err := p.Remove(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("removal is not supported for %s environments", provider.Kind())
		}
		fmt.Println(SuccessStyle.Render("✓ ") + "removed " + NameStyle.Render(name))
		return nil
	},
}

// providerForSpec builds the provider for a spec file, detecting the
// kind from the file name unless --kind overrides it.
func providerForSpec(path string) (env.Provider, error) {
	kind := env.Kind(envKindFlag)
	if envKindFlag == "" {
		detected, ok := env.DetectKind(path)
		if !ok {
			return nil, fmt.Errorf("cannot detect the environment kind of %s, pass --kind", path)
		}
		kind = detected
	}

	opts := env.ProviderOptions{
		CacheDir:     cfg.CacheDir,
		PythonBinary: cfg.PythonBinary,
		GPUs:         cfg.Container.GPUs,
	}
	if kind == env.KindDocker {
		engine, err := containerEngine()
		if err != nil {
			return nil, err
		}
		opts.Engine = engine
	}
	return env.NewProvider(env.Spec{Path: path, Kind: kind}, opts)
}

// containerEngine resolves the configured container engine.
func containerEngine() (container.Engine, error) {
	return container.NewEngine(container.EngineType(cfg.Container.Engine))
}

func init() {
	envCmd.PersistentFlags().StringVar(&envKindFlag, "kind", "", "environment kind (docker, conda, venv, host)")

	envCmd.AddCommand(envBuildCmd)
	envCmd.AddCommand(envStatusCmd)
	envCmd.AddCommand(envRemoveCmd)
}

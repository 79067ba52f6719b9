package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/toolchain"
)

func newDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default [version]",
		Short: "Show or set the default toolchain",
		Long: `Default prints the current default toolchain when called without
arguments, or marks the given installed version as the default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runShowDefault()
			}
			return runSetDefault(args[0])
		},
	}
}

func runShowDefault() error {
	_, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	version, err := registry.Default()
	if err != nil {
		return err
	}
	if version == "" {
		return fmt.Errorf("no default toolchain configured; run 'infs install' first")
	}
	fmt.Println(version)
	return nil
}

func runSetDefault(version string) error {
	_, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	if err := registry.SetDefault(version); err != nil {
		if errors.Is(err, toolchain.ErrNotInstalled) {
			return fmt.Errorf("toolchain %s is not installed; run 'infs install %s' first", version, version)
		}
		return err
	}

	fmt.Printf("%s default toolchain set to %s\n", okMark("✓"), version)
	return nil
}

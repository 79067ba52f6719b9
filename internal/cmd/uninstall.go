package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/toolchain"
)

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <version>",
		Short: "Remove an installed toolchain version",
		Long: `Uninstall removes a toolchain's registry entry and directory. When the
removed version was the default, the highest remaining installed version
is promoted; when none remain the default is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(args[0])
		},
	}
}

func runUninstall(version string) error {
	paths, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	installer := toolchain.NewInstaller(paths, registry)
	promoted, err := installer.Uninstall(version)
	if err != nil {
		return err
	}

	fmt.Printf("%s Toolchain %s removed\n", okMark("✓"), version)
	if promoted != "" {
		fmt.Printf("Default toolchain is now %s\n", promoted)
	}
	return nil
}

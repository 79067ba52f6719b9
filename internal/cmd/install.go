package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/manifest"
	"github.com/0xGeorgii/inference/internal/toolchain"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [version]",
		Short: "Install a toolchain version",
		Long: `Install downloads a toolchain release, verifies its checksum, and
installs it atomically. Without a version argument the latest stable
release is installed.

Examples:
  infs install          # Install latest stable
  infs install 0.2.0    # Install a specific version`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := ""
			if len(args) == 1 {
				requested = args[0]
			}
			return runInstall(requested)
		},
	}
}

func runInstall(requested string) error {
	platform, err := manifest.Detect()
	if err != nil {
		return err
	}

	paths, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	client := manifest.NewClient()
	if verbose {
		fmt.Printf("Fetching manifest from %s\n", client.BaseURL())
	}
	m, err := client.Fetch()
	if err != nil {
		return err
	}

	entry, err := manifest.Resolve(m, requested)
	if err != nil {
		return err
	}

	artifact, err := manifest.SelectArtifact(entry, manifest.ToolCompiler, platform)
	if err != nil {
		return err
	}

	fmt.Printf("Installing toolchain %s for %s...\n", entry.Version, platform)

	installer := toolchain.NewInstaller(paths, registry)
	result, err := installer.Install(artifact, entry.Version)
	if err != nil {
		return err
	}

	if result.AlreadyInstalled {
		fmt.Printf("%s Toolchain %s is already installed\n", okMark("✓"), entry.Version)
		return nil
	}

	fmt.Printf("%s Toolchain %s installed\n", okMark("✓"), entry.Version)

	defaultVersion, err := registry.Default()
	if err == nil && defaultVersion != entry.Version {
		fmt.Printf("Run 'infs default %s' to make it the default toolchain\n", entry.Version)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/manifest"
	"github.com/0xGeorgii/inference/internal/update"
)

var checkOnly bool

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information and check for updates",
		Long: `Display the current infs version and optionally check whether a
newer release is available.

Examples:
  infs version          # Show current version
  infs version --check  # Check if an update is available`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without installing")

	return cmd
}

func runVersion() error {
	fmt.Printf("infs version %s (commit %s, built %s)\n", infsVersion, infsCommit, infsDate)
	if !checkOnly {
		return nil
	}

	platform, err := manifest.Detect()
	if err != nil {
		return err
	}

	client := manifest.NewClient()
	m, err := client.Fetch()
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	info, err := update.Check(m, platform, infsVersion)
	if err != nil {
		return err
	}

	if info.Available {
		fmt.Printf("update available: %s (run 'infs self update')\n", info.LatestVersion)
	} else {
		fmt.Println("infs is up to date")
	}
	return nil
}

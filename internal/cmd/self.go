package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/manifest"
	"github.com/0xGeorgii/inference/internal/update"
)

func newSelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Manage the infs binary itself",
	}
	cmd.AddCommand(newSelfUpdateCmd())
	return cmd
}

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update infs to the latest release",
		Long: `Update downloads the latest stable infs release for this platform,
verifies its checksum, and replaces the running binary in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate()
		},
	}
}

func runSelfUpdate() error {
	client := manifest.NewClient()
	if verbose {
		fmt.Printf("checking %s for updates\n", client.BaseURL())
	}

	result, err := update.Run(client, infsVersion)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case update.Updated:
		fmt.Printf("%s infs updated to %s\n", okMark("✓"), result.Version)
	default:
		fmt.Printf("infs %s is already the latest version\n", result.Version)
	}
	return nil
}

// Package cmd wires the infs command-line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/update"
)

var (
	// Global flags
	outputFormat string
	verbose      bool

	// Build metadata injected via ldflags, stored for the version and
	// self-update commands.
	infsVersion = "dev"
	infsCommit  = "none"
	infsDate    = "unknown"
)

func Execute(version, commit, date string) error {
	infsVersion = version
	infsCommit = commit
	infsDate = date

	// Remove the renamed-aside binary a previous self-update may have
	// left behind.
	update.CleanupOld()

	rootCmd := &cobra.Command{
		Use:   "infs",
		Short: "Inference language toolchain manager",
		Long: `infs installs and manages versioned Inference compiler toolchains.

Toolchains are fetched from the distribution server, verified against
their published checksums, and installed under ~/.inference (override
with INFERENCE_HOME). Build and run delegate to the resolved compiler.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newUninstallCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDefaultCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newSelfCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd.Execute()
}

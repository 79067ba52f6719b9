package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/toolchain"
)

type listEntry struct {
	Version     string `json:"version" yaml:"version"`
	Default     bool   `json:"default" yaml:"default"`
	InstalledAt string `json:"installed_at,omitempty" yaml:"installed_at,omitempty"`
	Age         string `json:"age,omitempty" yaml:"age,omitempty"`
}

type listReport []listEntry

func (r listReport) String() string {
	if len(r) == 0 {
		return "No toolchains installed. Run 'infs install' to get started."
	}

	var b strings.Builder
	for i, entry := range r {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := " "
		if entry.Default {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("%s %s", marker, entry.Version))
		if entry.Age != "" {
			b.WriteString(fmt.Sprintf("  (installed %s)", entry.Age))
		}
	}
	return b.String()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed toolchain versions",
		Long:  `List shows installed toolchains; the default is marked with an asterisk.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	paths, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	writer, err := newOutputWriter()
	if err != nil {
		return err
	}

	installed, listErr := registry.List()
	if listErr != nil {
		if !errors.Is(listErr, toolchain.ErrCorruptMetadata) {
			return listErr
		}
		// Degraded read: the directories on disk are still worth showing,
		// but the operator has to know the metadata is gone.
		fmt.Fprintf(os.Stderr, "%s %v\n", warnMark("warning:"), listErr)
		fmt.Fprintln(os.Stderr, "listing toolchain directories instead; run 'infs doctor' for details")

		versions, err := paths.ScanInstalledDirs()
		if err != nil {
			return err
		}
		report := make(listReport, 0, len(versions))
		for _, v := range versions {
			report = append(report, listEntry{Version: v})
		}
		return writer.Write(report)
	}

	defaultVersion, err := registry.Default()
	if err != nil {
		return err
	}

	report := make(listReport, 0, len(installed))
	for _, tc := range installed {
		report = append(report, listEntry{
			Version:     tc.Version,
			Default:     tc.Version == defaultVersion,
			InstalledAt: tc.InstalledAt.Format(time.RFC3339),
			Age:         humanAge(tc.InstalledAt),
		})
	}
	return writer.Write(report)
}

// humanAge renders an install timestamp as a rough relative age.
func humanAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	days := int(time.Since(t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 28:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case days < 365:
		months := days / 30
		if months <= 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := days / 365
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

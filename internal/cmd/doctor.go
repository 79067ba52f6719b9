package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/toolchain"
)

type doctorReport []toolchain.Check

func (r doctorReport) String() string {
	var b strings.Builder
	for _, check := range r {
		var mark string
		switch check.Status {
		case toolchain.StatusOK:
			mark = okMark("✓")
		case toolchain.StatusWarning:
			mark = warnMark("!")
		default:
			mark = failMark("✗")
		}
		fmt.Fprintf(&b, "%s %-12s %s\n", mark, check.Name, check.Message)
	}

	warnings, failures := 0, 0
	for _, check := range r {
		switch check.Status {
		case toolchain.StatusWarning:
			warnings++
		case toolchain.StatusError:
			failures++
		}
	}
	switch {
	case failures > 0:
		fmt.Fprintf(&b, "\n%d check(s) failed, %d warning(s)", failures, warnings)
	case warnings > 0:
		fmt.Fprintf(&b, "\nall checks passed with %d warning(s)", warnings)
	default:
		b.WriteString("\nall checks passed")
	}
	return b.String()
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the toolchain installation",
		Long: `Doctor runs read-only consistency checks over the toolchain home,
registry, and default toolchain, and reports findings with remediation
hints. It never modifies anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

func runDoctor() error {
	paths, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	writer, err := newOutputWriter()
	if err != nil {
		return err
	}

	checks := doctorReport(toolchain.RunChecks(paths, registry))
	if err := writer.Write(checks); err != nil {
		return err
	}

	for _, check := range checks {
		if check.Status == toolchain.StatusError {
			return &ExitCodeError{Code: 1}
		}
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/0xGeorgii/inference/internal/toolchain"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <file> [args...]",
		Short: "Compile an Inference source file",
		Long: `Build resolves a compiler and invokes it on the given source file.
All arguments are forwarded to the compiler unchanged.`,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompiler("build", args)
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file> [args...]",
		Short: "Compile and execute an Inference source file",
		Long: `Run resolves a compiler and invokes it in run mode on the given
source file. Arguments after the file are passed to the program.`,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompiler("run", args)
		},
	}
}

// runCompiler delegates to the resolved compiler as an opaque subprocess.
// Its stdio is inherited and its exit code propagated verbatim.
func runCompiler(mode string, args []string) error {
	paths, registry, err := newEnvironment()
	if err != nil {
		return err
	}

	location, err := toolchain.ResolveCompiler(paths, registry)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "using compiler %s (%s)\n", location.Path, location.Source)
	}

	cmdArgs := append([]string{mode}, args...)
	proc := exec.Command(location.Path, cmdArgs...)
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitCodeError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run compiler %s: %w", location.Path, err)
	}
	return nil
}

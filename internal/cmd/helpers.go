package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/0xGeorgii/inference/internal/output"
	"github.com/0xGeorgii/inference/internal/toolchain"
)

// Colored status markers used across commands.
var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
)

// ExitCodeError carries a delegated subprocess's exit code to main so it
// can be propagated verbatim.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// newEnvironment resolves the home layout and registry for a command.
func newEnvironment() (*toolchain.Paths, *toolchain.Registry, error) {
	paths, err := toolchain.NewPaths()
	if err != nil {
		return nil, nil, err
	}
	return paths, toolchain.NewRegistry(paths), nil
}

// newOutputWriter builds the writer for the global --output flag.
func newOutputWriter() (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(os.Stdout, format), nil
}

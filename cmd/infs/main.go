package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/0xGeorgii/inference/internal/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cmd.Execute(version, commit, date); err != nil {
		var exitErr *cmd.ExitCodeError
		if errors.As(err, &exitErr) {
			// Delegated subprocess already wrote its own output.
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

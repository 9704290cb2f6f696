package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/refracthq/refract/internal/cli"
	"github.com/refracthq/refract/internal/pipeline"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps the input sentinel errors to their
// dedicated exit codes; anything else is fatal
func run() int {
	err := cli.Execute()
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, pipeline.ErrInputMissing):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	case errors.Is(err, pipeline.ErrInputTooLarge):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	default:
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		return 1
	}
}

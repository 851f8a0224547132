package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"verid/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		// Unreachable collaborators exit distinctly so wrappers can retry.
		if services.IsInfrastructure(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

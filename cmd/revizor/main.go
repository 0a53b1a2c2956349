package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/revizor/internal/cli"
	"github.com/ppiankov/revizor/internal/engine"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var muErr *engine.ModelUnavailableError
		if errors.As(err, &muErr) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/txflow/txflow/cmd/txflow/app"
	"github.com/txflow/txflow/internal/txflowerr"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a returned error to the codes documented for txflow
// analyze: 1 malformed input, 2 upstream fetch failure, 3 output sink
// failure. Anything else (flag parsing, size-exceeded guard) falls back
// to the generic failure code 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, txflowerr.ErrUpstreamFetch):
		return 2
	case errors.Is(err, txflowerr.ErrOutputSink):
		return 3
	default:
		return 1
	}
}

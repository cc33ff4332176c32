// Command lstarctl is a small example CLI wiring the learner against
// either an in-memory demonstration target or a live TCP target. It is
// not part of the learning core; it exists to give the ambient stack
// (configuration, CLI) somewhere to live.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newRootCommand(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

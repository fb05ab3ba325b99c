package main

import (
	"errors"
	"os"

	"github.com/unitrun/unitrun/internal/adapters/inbound/cli"
	"github.com/unitrun/unitrun/internal/domain"
)

// Exit codes: 0 all discovered tests passed, 1 generic failure,
// 2 no compilable tests discovered.
func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, domain.ErrNoCompilableTests) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

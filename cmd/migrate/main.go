// Command kindred-migrate applies schema migrations and checks the
// environment outside the running server.
package main

import (
	"os"

	"github.com/lshigami/Kindred/internal/logger"
)

func main() {
	logger.Init()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

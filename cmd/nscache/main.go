package main

import (
	"os"

	"github.com/dlshle/nscache/internal/cmd"
)

func main() {
	if err := cmd.NewNSCacheCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

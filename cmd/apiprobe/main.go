// Package main sends one request through the retrying API client.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	probecmd "github.com/louisbranch/launchpad/internal/cmd/apiprobe"
	"github.com/louisbranch/launchpad/internal/platform/config"
)

func main() {
	cfg, err := probecmd.ParseConfig(flag.CommandLine, os.Args[1:], config.Lookup)
	config.ExitOnError(err, "parse flags")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := probecmd.Run(ctx, cfg, os.Stdout); err != nil {
		stop()
		if errors.Is(err, probecmd.ErrRequestFailed) {
			os.Exit(1)
		}
		config.Exitf("Error: %v", err)
	}
}

// Package main starts the admin dashboard service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	admincmd "github.com/louisbranch/launchpad/internal/cmd/admin"
	"github.com/louisbranch/launchpad/internal/platform/config"
)

func main() {
	cfg, err := admincmd.ParseConfig(flag.CommandLine, os.Args[1:], config.Lookup)
	config.ExitOnError(err, "parse flags")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admincmd.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("failed to serve: %v", err)
	}
}

// Command shelfctl is the storage administration CLI for a Postgres-backed
// object store.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/openshelf/shelfctl/internal/cmd"
)

// Build-time variables set via ldflags.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.SetVersionInfo(version, commit, buildDate)
	cmd.Execute(ctx)
}

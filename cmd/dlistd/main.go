// Spins up the dlist server, serving named lists over the Redis protocol.

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nobletooth/dlist/pkg/config"
	"github.com/nobletooth/dlist/pkg/port"
	"github.com/nobletooth/dlist/pkg/storage"
	"github.com/nobletooth/dlist/pkg/utils"
)

var printVersion = flag.Bool("print_version", false, "Print the version and exit.")

func main() {
	config.InitFlags()
	utils.InitLogging()

	if *printVersion {
		slog.Info("dlist build info.", "version", utils.Version, "commit", utils.Commit, "build", utils.BuildTime,
			"dev", utils.IsDevBuild())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() { // Listen for OS interrupts in the background.
		sig := <-signals
		slog.Info("Received termination signal, cancelling server context.", "signal", sig)
		cancel()
	}()

	store, err := storage.NewLists()
	if err != nil {
		slog.Error("Failed to create lists store.", "err", err)
		os.Exit(1)
	}

	metricsErr := make(chan error, 1)
	go func() {
		err := port.RunMetricsServer(ctx)
		if err != nil {
			cancel() // Take the Redis server down with it.
		}
		metricsErr <- err
	}()

	serverErr := port.RunRedisServer(ctx, store)
	cancel() // Stop the metrics server too if the Redis server failed on its own.
	if err := errors.Join(serverErr, <-metricsErr); err != nil {
		slog.Error("dlist server stopped.", "err", err)
		os.Exit(1)
	}
}

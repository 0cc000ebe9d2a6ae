package port

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var metricsAddress = flag.String("metrics_address", "",
	"The ip:port to serve prometheus metrics on. Metrics are not served if empty.")

// knownCommands bounds the cardinality of the command label.
var knownCommands = []string{"PING", "ECHO", "QUIT", "LPUSH", "RPUSH", "LPOP", "RPOP", "LLEN", "EXISTS", "DEL"}

var (
	commandsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dlist",
		Name:      "commands_total",
		Help:      "The total number of handled Redis commands",
	}, []string{
		"command", // Lower cased command name, or "unknown".
		"status",  // Either "ok" or "error".
	})
	connectionsMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dlist",
		Name:      "connections_active",
		Help:      "The number of open Redis connections",
	})
)

// recordCommand counts a handled command by its name and outcome.
func recordCommand(command string, output redisOutput) {
	label := "unknown"
	if slices.Contains(knownCommands, command) {
		label = strings.ToLower(command)
	}
	status := "ok"
	if output.isError() {
		status = "error"
	}
	commandsMetric.WithLabelValues(label, status).Inc()
}

// RunMetricsServer serves prometheus metrics on --metrics_address until `ctx` is cancelled.
// It returns right away if no address is configured.
func RunMetricsServer(ctx context.Context) error {
	if *metricsAddress == "" {
		slog.Debug("Metrics address not specified. Skipping metrics server.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: *metricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	serverErrSignal := make(chan error, 1)
	go func() {
		slog.Info("Metrics server listening.", "address", *metricsAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrSignal <- err
		}
		close(serverErrSignal)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down metrics server: %w", err)
		}
		return nil
	case err, ok := <-serverErrSignal:
		if !ok {
			return errors.New("metrics server stopped unexpectedly")
		}
		return fmt.Errorf("metrics server stopped unexpectedly: %w", err)
	}
}

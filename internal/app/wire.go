package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"sail/internal/domain"
	"sail/internal/logging"
	"sail/internal/metrics"
	"sail/internal/services/network"
)

// Wire bundles the logger, metrics and network manager for the CLI.
type Wire struct {
	Config  Config
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Network *network.Manager
}

// NewWire constructs the dependency graph from cfg. Logs go to logOut.
func NewWire(cfg Config, logOut io.Writer) (*Wire, error) {
	if cfg.Home == "" {
		return nil, errors.New("config home is required")
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	log, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	mgr, err := network.New(cfg.Home,
		network.WithLogger(log),
		network.WithMetrics(m),
		network.WithIterations(cfg.KDFIterations),
		network.WithSwitchHook(func(from, to domain.Mode) {
			log.Debug("feature set changed", "currencies", to.Features().Currencies)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("load network state: %w", err)
	}

	return &Wire{
		Config:  cfg,
		Log:     log,
		Metrics: m,
		Network: mgr,
	}, nil
}

// Close flushes metrics to the configured textfile and releases the manager.
func (w *Wire) Close() error {
	var errs []error
	if err := w.Metrics.WriteTextfile(w.Config.MetricsTextfile); err != nil {
		errs = append(errs, fmt.Errorf("write metrics: %w", err))
	}
	if err := w.Network.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

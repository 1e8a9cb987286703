// Package cmd holds the startup plumbing shared by service entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/obstetriccare/internal/platform/config"
	"github.com/louisbranch/obstetriccare/internal/platform/otel"
)

// ServiceDashboard names the stats dashboard process in telemetry and logs.
const ServiceDashboard = "dashboard"

const defaultTelemetryShutdown = 5 * time.Second

// Option adjusts RunWithTelemetry.
type Option func(*runOptions)

type runOptions struct {
	shutdownTimeout time.Duration
}

// WithShutdownTimeout bounds the telemetry flush after run returns.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *runOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// ParseConfig loads T from OBSTETRIC_CARE_ prefixed environment variables,
// then parses args with the flags bind registers. Flags bound to fields of
// the loaded value override the environment.
func ParseConfig[T any](fs *flag.FlagSet, args []string, bind func(*T, *flag.FlagSet)) (T, error) {
	var cfg T
	if fs == nil {
		return cfg, errors.New("flag parser is required")
	}
	if err := config.ParseEnvPrefixed(&cfg); err != nil {
		return cfg, err
	}
	if bind != nil {
		bind(&cfg, fs)
	}
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		var zero T
		return zero, err
	}
	return cfg, nil
}

// RunWithTelemetry sets up tracing for service, runs run, and flushes
// pending spans afterwards.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error, opts ...Option) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	options := runOptions{shutdownTimeout: defaultTelemetryShutdown}
	for _, opt := range opts {
		opt(&options)
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), options.shutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}

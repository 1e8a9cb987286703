// Package dashboard parses dashboard service flags and launches the service.
package dashboard

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/obstetriccare/internal/platform/cmd"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/server"
)

// Config holds the dashboard command configuration. Environment names carry
// the OBSTETRIC_CARE_ prefix.
type Config struct {
	HTTPAddr     string `env:"DASHBOARD_HTTP_ADDR"     envDefault:"localhost:8090"`
	ContainerID  string `env:"DASHBOARD_CONTAINER_ID"`
	RedisAddr    string `env:"DASHBOARD_REDIS_ADDR"`
	RedisChannel string `env:"DASHBOARD_REDIS_CHANNEL" envDefault:"dashboard:stats"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return entrypoint.ParseConfig(fs, args, func(cfg *Config, fs *flag.FlagSet) {
		fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
		fs.StringVar(&cfg.ContainerID, "container-id", cfg.ContainerID, "dashboard wrapper element id")
		fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the shared stats feed (empty disables it)")
		fs.StringVar(&cfg.RedisChannel, "redis-channel", cfg.RedisChannel, "Redis pub/sub channel carrying stat updates")
	})
}

// Run starts the dashboard server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, func(ctx context.Context) error {
		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr:     cfg.HTTPAddr,
			ContainerID:  cfg.ContainerID,
			RedisAddr:    cfg.RedisAddr,
			RedisChannel: cfg.RedisChannel,
		})
		if err != nil {
			return fmt.Errorf("init dashboard server: %w", err)
		}
		defer srv.Close()

		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve dashboard: %w", err)
		}
		return nil
	})
}

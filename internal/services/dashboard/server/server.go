package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/obstetriccare/internal/platform/timeouts"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/feed"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/live"
	"github.com/redis/go-redis/v9"
)

// Config defines the inputs for the dashboard process.
type Config struct {
	HTTPAddr    string
	ContainerID string
	// RedisAddr enables the shared stats feed when set.
	RedisAddr    string
	RedisChannel string
	// Dashboard is the role table; the zero value uses the default table.
	Dashboard dashboard.Config
}

// Server hosts the dashboard HTTP surface, the live hub, and the optional
// Redis feed.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	hub        *live.Hub
	board      *dashboard.Board
	redis      *redis.Client
	subscriber *feed.Subscriber
}

// redisPublisher relays pushes through the feed channel.
type redisPublisher struct {
	client  *redis.Client
	channel string
}

func (p redisPublisher) Publish(ctx context.Context, updates map[string]dashboard.Value) error {
	return feed.Publish(ctx, p.client, p.channel, updates)
}

// NewServer builds the dashboard server. ctx bounds websocket connections.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	table := config.Dashboard
	if len(table.Roles) == 0 {
		table = dashboard.DefaultConfig()
	}
	board, err := dashboard.NewBoard(table)
	if err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	hub := live.NewHub()
	handlerConfig := HandlerConfig{ContainerID: config.ContainerID}

	var redisClient *redis.Client
	var subscriber *feed.Subscriber
	if addr := strings.TrimSpace(config.RedisAddr); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
		channel := strings.TrimSpace(config.RedisChannel)
		if channel == "" {
			channel = feed.DefaultChannel
		}
		subscriber = feed.NewSubscriber(redisClient, channel, board)
		handlerConfig.Publisher = redisPublisher{client: redisClient, channel: channel}
	}

	handler := NewHandler(ctx, board, hub, handlerConfig)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		hub:        hub,
		board:      board,
		redis:      redisClient,
		subscriber: subscriber,
	}, nil
}

// Board returns the board served by s.
func (s *Server) Board() *dashboard.Board {
	if s == nil {
		return nil
	}
	return s.board
}

// ListenAndServe runs the hub, the feed, and the HTTP server until the
// context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("dashboard server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	go s.hub.Run(ctx)
	if s.subscriber != nil {
		go func() {
			if err := s.subscriber.Run(ctx); err != nil {
				log.Printf("dashboard feed stopped: %v", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	log.Printf("dashboard listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the Redis connection held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("close dashboard redis client: %v", err)
		}
	}
}

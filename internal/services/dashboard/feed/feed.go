// Package feed applies stat updates published on a Redis pub/sub channel.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
	"github.com/louisbranch/obstetriccare/internal/platform/timeouts"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel carrying stat updates.
const DefaultChannel = "dashboard:stats"

// Updater applies decoded stat updates.
type Updater interface {
	UpdateStats(updates map[string]dashboard.Value) int
}

// Subscriber listens on a channel and forwards each payload to an Updater.
type Subscriber struct {
	client  *redis.Client
	channel string
	updater Updater
	retry   time.Duration
}

// NewSubscriber returns a subscriber for channel; an empty channel uses
// DefaultChannel.
func NewSubscriber(client *redis.Client, channel string, updater Updater) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{
		client:  client,
		channel: channel,
		updater: updater,
		retry:   timeouts.FeedRetry,
	}
}

// Run subscribes and applies updates until ctx ends. Subscription failures
// are logged and retried.
func (s *Subscriber) Run(ctx context.Context) error {
	if s == nil || s.client == nil || s.updater == nil {
		return fmt.Errorf("feed subscriber is not configured")
	}
	for {
		err := s.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("feed %s: %v", s.channel, err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.retry):
		}
	}
}

func (s *Subscriber) consume(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("feed %s close: %v", s.channel, err)
		}
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Printf("feed subscribed to %s", s.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription channel closed")
			}
			s.handle(msg.Payload)
		}
	}
}

// handle decodes and applies one payload. Undecodable payloads are logged
// and skipped.
func (s *Subscriber) handle(payload string) int {
	updates, err := DecodeUpdates([]byte(payload))
	if err != nil {
		log.Printf("feed %s: skip payload: %v", s.channel, err)
		return 0
	}
	return s.updater.UpdateStats(updates)
}

// DecodeUpdates parses a JSON object of stat key to number-or-string value.
func DecodeUpdates(payload []byte) (map[string]dashboard.Value, error) {
	var updates map[string]dashboard.Value
	if err := json.Unmarshal(payload, &updates); err != nil {
		if code := apperrors.GetCode(err); code == apperrors.CodeDashboardInvalidValue {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CodeDashboardMalformedUpdate, "stat update is not a JSON object", err)
	}
	if updates == nil {
		return nil, apperrors.New(apperrors.CodeDashboardMalformedUpdate, "stat update is not a JSON object")
	}
	return updates, nil
}

// Publish sends updates on channel. It is the producer side of Subscriber.
func Publish(ctx context.Context, client *redis.Client, channel string, updates map[string]dashboard.Value) error {
	if channel == "" {
		channel = DefaultChannel
	}
	payload, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("encode stat update: %w", err)
	}
	if err := client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish stat update: %w", err)
	}
	return nil
}

package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const channelPrefix = "records:"

// Channel returns the pub/sub channel carrying notifications for userID
func Channel(userID string) string {
	return channelPrefix + userID
}

// RedisBus delivers notifications through Redis pub/sub so that every
// instance behind a load balancer sees every change.
type RedisBus struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisOptions configures the Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisBus connects to Redis and verifies the connection
func NewRedisBus(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisBus{
		client: client,
		logger: logger.With().Str("component", "notify.redis").Logger(),
	}, nil
}

// Publish sends a change notification for userID
func (b *RedisBus) Publish(ctx context.Context, userID string) error {
	if err := b.client.Publish(ctx, Channel(userID), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish change for %s: %w", userID, err)
	}
	return nil
}

// Subscribe listens on the user's channel until unsubscribe is called or
// ctx is done. fn runs on the listener goroutine.
func (b *RedisBus) Subscribe(ctx context.Context, userID string, fn Handler) (func(), error) {
	pubsub := b.client.Subscribe(ctx, Channel(userID))

	// Wait for the subscription to be confirmed so no publish is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Channel(userID), err)
	}

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				b.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to close subscription")
			}
		})
	}

	go func() {
		messages := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				unsubscribe()
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				fn()
			}
		}
	}()

	return unsubscribe, nil
}

// Close closes the Redis client
func (b *RedisBus) Close() error {
	return b.client.Close()
}

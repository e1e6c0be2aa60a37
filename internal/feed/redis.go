package feed

import (
	"context"
	"fmt"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/rook-computer/boardview/internal/obslog"
)

const (
	SourceRedis = "redis"

	DefaultRedisChannel = "boardview:boards"
)

// RedisSubscriber takes frames from a Redis pub/sub channel. Every message is
// one frame in the format accepted by DecodeFrame.
type RedisSubscriber struct {
	Client  *redis.Client
	Channel string
	Logger  obslog.Logger
}

func NewRedisSubscriber(client *redis.Client, channel string) *RedisSubscriber {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisSubscriber{Client: client, Channel: channel}
}

// ParseRedisURL splits a redis:// input into client options and the channel
// named by its "channel" query parameter.
func ParseRedisURL(raw string) (*redis.Options, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}
	q := u.Query()
	channel := q.Get("channel")
	q.Del("channel")
	u.RawQuery = q.Encode()
	if channel == "" {
		channel = DefaultRedisChannel
	}
	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}
	return opts, channel, nil
}

// Run forwards frames until ctx is cancelled or the subscription closes.
func (s *RedisSubscriber) Run(ctx context.Context, sink Sink) error {
	sub := s.Client.Subscribe(ctx, s.Channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.Channel, err)
	}
	if s.Logger != nil {
		s.Logger.Infof("feed", "subscribed to redis channel %s", s.Channel)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			m, _, err := DecodeFrame(msg.Payload)
			if err != nil {
				if s.Logger != nil {
					s.Logger.Errorf("feed", "redis frame on %s: %v", msg.Channel, err)
				}
				continue
			}
			sink.SetBoard(m, SourceRedis)
		}
	}
}

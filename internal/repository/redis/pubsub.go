package redis

import (
	"context"
	"encoding/json"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/redis/go-redis/v9"
)

type SessionsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewSessionsPubSub(rdb *redis.Client) *SessionsPubSub {
	return &SessionsPubSub{
		rdb:     rdb,
		channel: ChannelSessionsChanged(),
	}
}

func (p *SessionsPubSub) PublishSessionChanged(ctx context.Context, msg domain.SessionChanged) error {
	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *SessionsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, msg domain.SessionChanged)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.SessionChanged
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.SessionID != "" {
				handler(ctx, ev)
			}
		}
	}
}

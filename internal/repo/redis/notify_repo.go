package redis

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

const notifyChannelPrefix = "notify:user:"

// NotifyRepo fans events out through redis pub/sub so every API instance
// can reach a user's open stream, no matter which instance accepted it.
type NotifyRepo struct {
	client *goredis.Client
}

func NewNotifyRepo(client *goredis.Client) *NotifyRepo {
	return &NotifyRepo{client: client}
}

func (r *NotifyRepo) Publish(ctx context.Context, userID int64, payload []byte) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 || len(payload) == 0 {
		return fmt.Errorf("invalid notify payload")
	}

	if err := r.client.Publish(ctx, notifyChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish notify event: %w", err)
	}

	return nil
}

// Subscribe opens a channel of raw event payloads for one user. The
// returned cancel func must be called when the consumer goes away.
func (r *NotifyRepo) Subscribe(ctx context.Context, userID int64) (<-chan []byte, func(), error) {
	if r.client == nil {
		return nil, nil, fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return nil, nil, fmt.Errorf("invalid user id")
	}

	sub := r.client.Subscribe(ctx, notifyChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe notify channel: %w", err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}

	return out, cancel, nil
}

func notifyChannel(userID int64) string {
	return notifyChannelPrefix + strconv.FormatInt(userID, 10)
}

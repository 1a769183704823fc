package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"clique/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes change events into Redis channels so that every
// process sharing the document hears about writes.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every call into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishChange sends a change event to the key's channel.
func (n *Notifier) PublishChange(ctx context.Context, event ChangeEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, ChangeChannel(event.Key), payload).Err()
}

// StartChangeSubscriber subscribes to the key's channel and calls onChange
// for each decodable event. It returns once the subscription is active.
func (n *Notifier) StartChangeSubscriber(ctx context.Context, key string, onChange func(ChangeEvent)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, ChangeChannel(key))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", ChangeChannel(key), err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					observability.GlobalLogger.WarnContext(ctx, "dropping malformed change event",
						slog.String("channel", msg.Channel),
						slog.String("error", err.Error()),
					)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.GlobalLogger.ErrorContext(ctx, "panic in change subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onChange(event)
				}()
			}
		}
	}()

	return nil
}

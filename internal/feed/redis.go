package feed

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "portfolio:changes:"

func Channel(topic string) string {
	return channelPrefix + topic
}

// Redis shares change signals between every API instance pointed at the same
// Redis server.
type Redis struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedis(rdb *redis.Client, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.Default()
	}
	return &Redis{rdb: rdb, log: log}
}

func (r *Redis) Publish(ctx context.Context, topic string) error {
	return r.rdb.Publish(ctx, Channel(topic), "changed").Err()
}

func (r *Redis) Subscribe(ctx context.Context, topic string, fn func()) (func(), error) {
	sub := r.rdb.Subscribe(ctx, Channel(topic))
	// Wait for the subscription confirmation so no publish after this call is lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	ch := sub.Channel()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if rec := recover(); rec != nil {
							r.log.Error("feed handler: panic",
								slog.String("topic", topic),
								slog.String("panic", fmt.Sprint(rec)),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					fn()
				}()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

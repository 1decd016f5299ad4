package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBridge связывает хабы нескольких экземпляров через Redis Pub/Sub:
// локальные события публикуются в канал, чужие события из канала попадают в локальный хаб.
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger
}

// NewRedisBridge создаёт мост; соединение проверяется через Ping
func NewRedisBridge(ctx context.Context, addr, channel string, hub *Hub, logger *zap.Logger) (*RedisBridge, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr), zap.String("channel", channel))

	return &RedisBridge{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger,
	}, nil
}

// Notify уведомляет локальных подписчиков и публикует событие для остальных экземпляров
func (b *RedisBridge) Notify(ctx context.Context, scope Scope) {
	if scope == ScopeNone {
		return
	}
	b.hub.Notify(ctx, scope)

	payload, err := json.Marshal(Event{Scope: scope, Origin: b.hub.Origin(), At: time.Now().UTC()})
	if err != nil {
		b.logger.Error("Failed to encode change event", zap.Error(err))
		return
	}

	// данные уже записаны, поэтому ошибка публикации только логируется
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Error("Failed to publish change event",
			zap.String("channel", b.channel),
			zap.String("scope", scope.String()),
			zap.Error(err))
	}
}

// Run читает канал до отмены ctx и пересылает чужие события в хаб
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	b.logger.Info("Listening for remote change events", zap.String("channel", b.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Redis bridge stopped")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.relay(msg.Payload)
		}
	}
}

func (b *RedisBridge) relay(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		b.logger.Warn("Ignoring malformed change event", zap.String("payload", payload), zap.Error(err))
		return
	}
	if ev.Origin == b.hub.Origin() {
		return
	}
	b.hub.Publish(ev)
}

func (b *RedisBridge) Close() error {
	return b.client.Close()
}

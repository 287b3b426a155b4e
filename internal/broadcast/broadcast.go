// Package broadcast доставляет события статуса бега подписчикам каналов крю.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher отправляет событие в канал. Доставка fire-and-forget:
// вызывающая сторона не откатывает свою работу при ошибке публикации.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// RunningTopic возвращает имя канала статусов бега крю
func RunningTopic(crewID int64) string {
	return fmt.Sprintf("crew/%d/running", crewID)
}

// RedisBroadcaster реализует Publisher поверх Redis PUB/SUB
type RedisBroadcaster struct {
	rdb *redis.Client
}

// NewRedisBroadcaster создает новый RedisBroadcaster
func NewRedisBroadcaster(rdb *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

// Publish сериализует payload в JSON и публикует в канал
func (b *RedisBroadcaster) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast payload: %w", err)
	}

	if err := b.rdb.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	return nil
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const messageLogKeyPrefix = "message_log:"

// MessageLog guarda os últimos ids processados de cada telefone numa lista
// do Redis, cortada em size e expirando após ttl sem mensagens.
type MessageLog struct {
	client redis.Cmdable
	size   int64
	ttl    time.Duration
}

func NewMessageLog(client redis.Cmdable, size int, ttl time.Duration) *MessageLog {
	if size <= 0 {
		size = 32
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MessageLog{client: client, size: int64(size), ttl: ttl}
}

func (l *MessageLog) Seen(ctx context.Context, phone, messageID string) (bool, error) {
	ids, err := l.client.LRange(ctx, messageLogKeyPrefix+phone, 0, -1).Result()
	if err != nil {
		return false, fmt.Errorf("falha ao ler mensagens vistas no redis: %w", err)
	}
	for _, id := range ids {
		if id == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (l *MessageLog) Remember(ctx context.Context, phone, messageID string) error {
	key := messageLogKeyPrefix + phone
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, messageID)
		pipe.LTrim(ctx, key, 0, l.size-1)
		pipe.Expire(ctx, key, l.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("falha ao registrar mensagem no redis: %w", err)
	}
	return nil
}

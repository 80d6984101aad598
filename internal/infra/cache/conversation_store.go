package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

const (
	conversationKeyPrefix = "conversation:"
	processedTriggersKey  = "profile_trigger:processed"
)

// ConversationStore persiste o estado das conversas no Redis, sobrevivendo
// a reinícios do processo. ttl 0 mantém a chave sem expiração.
type ConversationStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewConversationStore(client redis.Cmdable, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, ttl: ttl}
}

func (s *ConversationStore) Get(ctx context.Context, phone string) (*entity.ConversationState, error) {
	data, err := s.client.Get(ctx, conversationKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler conversa do redis: %w", err)
	}

	var state entity.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("estado de conversa corrompido: %w", err)
	}
	if state.PendingData == nil {
		state.PendingData = map[string]string{}
	}
	return &state, nil
}

func (s *ConversationStore) Set(ctx context.Context, phone string, state entity.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("falha ao serializar conversa: %w", err)
	}
	if err := s.client.Set(ctx, conversationKeyPrefix+phone, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("falha ao gravar conversa no redis: %w", err)
	}
	return nil
}

func (s *ConversationStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, conversationKeyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("falha ao remover conversa do redis: %w", err)
	}
	return nil
}

// TriggerSet guarda os disparos processados num SET do Redis.
type TriggerSet struct {
	client redis.Cmdable
}

func NewTriggerSet(client redis.Cmdable) *TriggerSet {
	return &TriggerSet{client: client}
}

func (t *TriggerSet) Contains(ctx context.Context, key entity.TriggerKey) (bool, error) {
	ok, err := t.client.SIsMember(ctx, processedTriggersKey, key.String()).Result()
	if err != nil {
		return false, fmt.Errorf("falha ao consultar disparos no redis: %w", err)
	}
	return ok, nil
}

func (t *TriggerSet) Add(ctx context.Context, key entity.TriggerKey) error {
	if err := t.client.SAdd(ctx, processedTriggersKey, key.String()).Err(); err != nil {
		return fmt.Errorf("falha ao registrar disparo no redis: %w", err)
	}
	return nil
}

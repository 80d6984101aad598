package memory

import (
	"context"
	"sync"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

// ConversationStore guarda o estado em memória do processo. Os valores são
// copiados na entrada e na saída; quem chama nunca compartilha o mapa.
type ConversationStore struct {
	mu     sync.RWMutex
	states map[string]entity.ConversationState
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{states: make(map[string]entity.ConversationState)}
}

func (s *ConversationStore) Get(_ context.Context, phone string) (*entity.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[phone]
	if !ok {
		return nil, nil
	}
	clone := state.Clone()
	return &clone, nil
}

func (s *ConversationStore) Set(_ context.Context, phone string, state entity.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[phone] = state.Clone()
	return nil
}

func (s *ConversationStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, phone)
	return nil
}

func (s *ConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

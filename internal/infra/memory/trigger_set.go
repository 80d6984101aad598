package memory

import (
	"context"
	"sync"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

// TriggerSet lembra os disparos já feitos enquanto o processo vive.
type TriggerSet struct {
	mu   sync.Mutex
	keys map[entity.TriggerKey]struct{}
}

func NewTriggerSet() *TriggerSet {
	return &TriggerSet{keys: make(map[entity.TriggerKey]struct{})}
}

func (t *TriggerSet) Contains(_ context.Context, key entity.TriggerKey) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.keys[key]
	return ok, nil
}

func (t *TriggerSet) Add(_ context.Context, key entity.TriggerKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys[key] = struct{}{}
	return nil
}

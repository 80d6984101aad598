package memory

import (
	"context"
	"sync"
)

// DefaultMessageLogSize é quantos ids recentes ficam guardados por telefone.
const DefaultMessageLogSize = 32

// MessageLog guarda, por telefone, os últimos ids de mensagem processados.
type MessageLog struct {
	mu    sync.Mutex
	size  int
	byKey map[string][]string
}

func NewMessageLog(size int) *MessageLog {
	if size <= 0 {
		size = DefaultMessageLogSize
	}
	return &MessageLog{size: size, byKey: make(map[string][]string)}
}

func (l *MessageLog) Seen(_ context.Context, phone, messageID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range l.byKey[phone] {
		if id == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (l *MessageLog) Remember(_ context.Context, phone, messageID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := append(l.byKey[phone], messageID)
	if len(ids) > l.size {
		ids = ids[len(ids)-l.size:]
	}
	l.byKey[phone] = ids
	return nil
}

package usecase

import "sync"

// PhoneLocker garante no máximo uma transição em andamento por telefone.
type PhoneLocker struct {
	mu    sync.Mutex
	locks map[string]*phoneLock
}

type phoneLock struct {
	mu   sync.Mutex
	refs int
}

func NewPhoneLocker() *PhoneLocker {
	return &PhoneLocker{locks: make(map[string]*phoneLock)}
}

// Lock bloqueia até obter o telefone e devolve a função de liberação.
func (l *PhoneLocker) Lock(phone string) func() {
	l.mu.Lock()
	pl, ok := l.locks[phone]
	if !ok {
		pl = &phoneLock{}
		l.locks[phone] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, phone)
		}
		l.mu.Unlock()
	}
}

func (l *PhoneLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
)

var _ ports.Locker = (*Locker)(nil)

// Locker bloqueos dentro del proceso, para una sola réplica sin Redis.
// Una llave tomada expira al cumplirse su ttl aunque no se libere.
type Locker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

// NewLocker crea un Locker vacío.
func NewLocker() *Locker {
	return &Locker{held: map[string]time.Time{}, clock: time.Now}
}

// Obtain toma la llave o devuelve domain.ErrLocked si sigue vigente.
func (l *Locker) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, domain.ErrLocked
	}
	until := now.Add(ttl)
	l.held[key] = until
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(until) {
			delete(l.held, key)
		}
		return nil
	}, nil
}

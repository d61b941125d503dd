package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ExchangeGuard serializes exchanges per (user, workspace) pair: one writer
// at a time may append to a pair's history. Entries are never evicted, so the
// working set is bounded by the distinct pairs this process has served.
type ExchangeGuard struct {
	mu    sync.Mutex
	locks *cache.Cache
}

func NewExchangeGuard() *ExchangeGuard {
	return &ExchangeGuard{
		locks: cache.New(cache.NoExpiration, 0),
	}
}

func (g *ExchangeGuard) key(userId uuid.UUID, workspaceId *uuid.UUID) string {
	if workspaceId == nil {
		return userId.String() + ":none"
	}
	return userId.String() + ":" + workspaceId.String()
}

// Acquire blocks until the pair's lock is held and returns the release func.
func (g *ExchangeGuard) Acquire(userId uuid.UUID, workspaceId *uuid.UUID) func() {
	key := g.key(userId, workspaceId)

	g.mu.Lock()
	var lock *sync.Mutex
	if x, found := g.locks.Get(key); found {
		lock = x.(*sync.Mutex)
	} else {
		lock = &sync.Mutex{}
		g.locks.Set(key, lock, cache.NoExpiration)
	}
	g.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

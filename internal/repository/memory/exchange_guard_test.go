package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExchangeGuardSerializesSamePair(t *testing.T) {
	guard := NewExchangeGuard()
	userId := uuid.New()
	wsId := uuid.New()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := guard.Acquire(userId, &wsId)
			defer release()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "same pair must never run concurrently")
}

func TestExchangeGuardAllowsDistinctPairs(t *testing.T) {
	guard := NewExchangeGuard()
	userId := uuid.New()
	wsA := uuid.New()
	wsB := uuid.New()

	releaseA := guard.Acquire(userId, &wsA)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := guard.Acquire(userId, &wsB)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("distinct pairs should not block each other")
	}
}

func TestExchangeGuardNilWorkspaceIsItsOwnPair(t *testing.T) {
	guard := NewExchangeGuard()
	userId := uuid.New()
	wsId := uuid.New()

	releaseNone := guard.Acquire(userId, nil)
	defer releaseNone()

	done := make(chan struct{})
	go func() {
		release := guard.Acquire(userId, &wsId)
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("no-workspace mode must not share a lock with a workspace")
	}
}

package workflow

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestKeyedMutex_MutualExclusion(t *testing.T) {
	km := newKeyedMutex()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock(id)
			counter++
			km.Unlock(id)
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50, got %d", counter)
	}
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		id := uuid.New()
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				km.Lock(id)
				km.Unlock(id)
			}
		}(id)
	}
	wg.Wait()

	km.mu.Lock()
	n := len(km.locks)
	km.mu.Unlock()
	if n != 0 {
		t.Errorf("expected empty lock table after release, got %d entries", n)
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	a, b := uuid.New(), uuid.New()

	km.Lock(a)
	done := make(chan struct{})
	go func() {
		km.Lock(b)
		km.Unlock(b)
		close(done)
	}()
	<-done // must not deadlock: b is independent of a
	km.Unlock(a)
}

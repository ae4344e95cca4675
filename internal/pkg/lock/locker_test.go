package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, "42")
			if err != nil {
				t.Errorf("Lock() error = %v", err)
				return
			}
			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("max holders = %d, want 1", maxSeen)
	}
	if m.Len() != 0 {
		t.Fatalf("Len() = %d after release, want 0", m.Len())
	}
}

func TestKeyedMutexContextCancel(t *testing.T) {
	m := NewKeyedMutex()
	unlock, err := m.Lock(context.Background(), "1")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err = m.Lock(ctx, "1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Lock() error = %v, want deadline exceeded", err)
	}

	// 其他 key 不受影响
	other, err := m.Lock(context.Background(), "2")
	if err != nil {
		t.Fatalf("Lock() other key error = %v", err)
	}
	other()
	unlock()

	deadline := time.Now().Add(time.Second)
	for m.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, abandoned waiter not released", m.Len())
	}
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, ErrLockNotAcquired
}

func TestChainReleasesOnFailure(t *testing.T) {
	m := NewKeyedMutex()
	chain := Chain{m, failingLocker{}}
	if _, err := chain.Lock(context.Background(), "7"); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("Chain.Lock() error = %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("first locker still held after chain failure")
	}
}

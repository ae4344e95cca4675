package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLockNotAcquired 在重试次数内未获取到锁
var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker 按 key 互斥，返回的 unlock 必须被调用
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex 进程内按 key 加锁，无人持有的 key 会被回收
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

func (s *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.refs++
	s.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		e.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() { s.release(key, e) }, nil
	case <-ctx.Done():
		// 等待中的 goroutine 拿到锁后立即归还
		go func() {
			<-acquired
			s.release(key, e)
		}()
		return nil, ctx.Err()
	}
}

func (s *KeyedMutex) release(key string, e *entry) {
	e.mu.Unlock()
	s.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// Len 当前被持有或等待中的 key 数量
func (s *KeyedMutex) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Chain 依次获取多个 Locker，释放顺序相反
type Chain []Locker

func (c Chain) Lock(ctx context.Context, key string) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, l := range c {
		unlock, err := l.Lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return releaseAll, nil
}

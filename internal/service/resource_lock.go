package service

import (
	"sync"
	"time"
)

type resourceKey struct {
	kind string
	id   int
}

// ResourceLocker serializes check-then-write sequences per resource.
// Different resources never block one another; acquisition is bounded so
// no request waits forever.
type ResourceLocker struct {
	mu    sync.Mutex
	locks map[resourceKey]chan struct{}
}

func NewResourceLocker() *ResourceLocker {
	return &ResourceLocker{locks: make(map[resourceKey]chan struct{})}
}

func (l *ResourceLocker) sem(kind string, id int) chan struct{} {
	key := resourceKey{kind: kind, id: id}
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}

// Acquire takes the lock for one resource, waiting at most timeout.
// It reports whether the lock was obtained.
func (l *ResourceLocker) Acquire(kind string, id int, timeout time.Duration) bool {
	ch := l.sem(kind, id)
	select {
	case ch <- struct{}{}:
		return true
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// Release frees a lock taken by Acquire. Calling Release without a
// matching Acquire is a programming error.
func (l *ResourceLocker) Release(kind string, id int) {
	<-l.sem(kind, id)
}

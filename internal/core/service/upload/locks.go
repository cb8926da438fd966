package upload

import "sync"

type refRWMutex struct {
	sync.RWMutex
	refs int
}

// keyedLocks hands out one RWMutex per key and forgets it once nobody holds or waits on it
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*refRWMutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*refRWMutex)}
}

func (k *keyedLocks) acquire(key string) *refRWMutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &refRWMutex{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *keyedLocks) release(key string, l *refRWMutex) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// lock takes key exclusively and returns the unlock func
func (k *keyedLocks) lock(key string) func() {
	l := k.acquire(key)
	l.Lock()
	return func() {
		l.Unlock()
		k.release(key, l)
	}
}

// rlock takes key shared and returns the unlock func
func (k *keyedLocks) rlock(key string) func() {
	l := k.acquire(key)
	l.RLock()
	return func() {
		l.RUnlock()
		k.release(key, l)
	}
}

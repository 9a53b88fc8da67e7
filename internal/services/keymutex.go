package services

import (
	"fmt"
	"sync"

	"github.com/wntjdus12/jobverse/internal/models"
)

// keyMutex serializes writers per (owner, jobSlug, docType) chain.
// Submissions and rollbacks on the same chain must not interleave; different
// chains share no state and proceed concurrently.
type keyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyMutex() *keyMutex {
	return &keyMutex{locks: map[string]*sync.Mutex{}}
}

func chainKey(owner, jobSlug string, docType models.DocType) string {
	return fmt.Sprintf("%s/%s/%s", owner, jobSlug, docType)
}

func (k *keyMutex) Lock(owner, jobSlug string, docType models.DocType) {
	k.mu.Lock()
	key := chainKey(owner, jobSlug, docType)
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()
	lock.Lock()
}

func (k *keyMutex) Unlock(owner, jobSlug string, docType models.DocType) {
	k.mu.Lock()
	lock := k.locks[chainKey(owner, jobSlug, docType)]
	k.mu.Unlock()
	if lock != nil {
		lock.Unlock()
	}
}

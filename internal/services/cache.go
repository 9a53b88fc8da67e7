package services

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FeedbackCache memoizes generator responses by a fingerprint of the full
// prompt context. Bounded LRU: capacity is fixed at construction and old
// entries are evicted, never accumulated for the process lifetime.
type FeedbackCache struct {
	entries *lru.Cache[string, *FeedbackResult]
}

func NewFeedbackCache(capacity int) (*FeedbackCache, error) {
	if capacity < 1 {
		capacity = 1
	}
	entries, err := lru.New[string, *FeedbackResult](capacity)
	if err != nil {
		return nil, err
	}
	return &FeedbackCache{entries: entries}, nil
}

// Fingerprint normalizes a prompt pair into a cache key. Any change to the
// content, history, company context or remarks changes the prompts and thus
// the key.
func (c *FeedbackCache) Fingerprint(system, user string) string {
	digest := sha256.Sum256([]byte(system + "\x00" + user))
	return hex.EncodeToString(digest[:])
}

func (c *FeedbackCache) Get(fingerprint string) (*FeedbackResult, bool) {
	return c.entries.Get(fingerprint)
}

func (c *FeedbackCache) Add(fingerprint string, result *FeedbackResult) {
	c.entries.Add(fingerprint, result)
}

func (c *FeedbackCache) Len() int {
	return c.entries.Len()
}

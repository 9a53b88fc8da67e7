package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackCache(t *testing.T) {
	cache, err := NewFeedbackCache(2)
	require.NoError(t, err)

	t.Run("fingerprint is stable and prompt-sensitive", func(t *testing.T) {
		a := cache.Fingerprint("system", "user")
		assert.Equal(t, a, cache.Fingerprint("system", "user"))
		assert.NotEqual(t, a, cache.Fingerprint("system", "other user"))
		assert.NotEqual(t, a, cache.Fingerprint("other system", "user"))
		// The separator keeps boundary-shifted pairs distinct.
		assert.NotEqual(t, cache.Fingerprint("ab", "c"), cache.Fingerprint("a", "bc"))
	})

	t.Run("round trip", func(t *testing.T) {
		key := cache.Fingerprint("s", "u")
		_, ok := cache.Get(key)
		assert.False(t, ok)

		want := &FeedbackResult{OverallFeedback: "ok"}
		cache.Add(key, want)

		got, ok := cache.Get(key)
		require.True(t, ok)
		assert.Same(t, want, got)
	})

	t.Run("evicts beyond capacity", func(t *testing.T) {
		small, err := NewFeedbackCache(2)
		require.NoError(t, err)

		keys := make([]string, 3)
		for i := range keys {
			keys[i] = small.Fingerprint("s", fmt.Sprintf("u%d", i))
			small.Add(keys[i], &FeedbackResult{OverallFeedback: fmt.Sprintf("f%d", i)})
		}

		assert.Equal(t, 2, small.Len())
		_, ok := small.Get(keys[0])
		assert.False(t, ok)
		_, ok = small.Get(keys[2])
		assert.True(t, ok)
	})
}

package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCreatesHistoryOnFirstUse(t *testing.T) {
	t.Parallel()

	cache := NewCache(0)
	cache.Append("actor", Turn{Role: "user", Content: "hello"})

	got := cache.Get("actor")
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Content)
}

func TestResetReplacesEntireHistory(t *testing.T) {
	t.Parallel()

	cache := NewCache(0)
	cache.Append("actor", Turn{Role: "user", Content: "old question"})
	cache.Append("actor", Turn{Role: "assistant", Content: "old answer"})

	cache.Reset("actor", Turn{Role: "user", Content: "fresh start"})

	got := cache.Get("actor")
	require.Len(t, got, 1)
	assert.Equal(t, "fresh start", got[0].Content)
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()

	cache := NewCache(4)
	for i := 0; i < 10; i++ {
		cache.Append("actor", Turn{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	got := cache.Get("actor")
	require.Len(t, got, 4)
	assert.Equal(t, "turn 6", got[0].Content)
	assert.Equal(t, "turn 9", got[3].Content)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	cache := NewCache(0)
	cache.Append("actor", Turn{Role: "user", Content: "original"})

	got := cache.Get("actor")
	got[0].Content = "mutated"

	assert.Equal(t, "original", cache.Get("actor")[0].Content)
}

func TestConcurrentAppendLosesNothing(t *testing.T) {
	t.Parallel()

	cache := NewCache(1000)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Append("actor", Turn{Role: "user", Content: fmt.Sprintf("%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, cache.Get("actor"), 100)
}

func TestActorsAreIndependent(t *testing.T) {
	t.Parallel()

	cache := NewCache(0)
	cache.Append("a", Turn{Role: "user", Content: "for a"})
	cache.Reset("b", Turn{Role: "user", Content: "for b"})

	assert.Len(t, cache.Get("a"), 1)
	assert.Len(t, cache.Get("b"), 1)
	assert.Empty(t, cache.Get("c"))
	assert.Equal(t, 2, cache.Len())
}

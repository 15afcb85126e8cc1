package sequence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	s := New()
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())

	s.Reset(0)
	assert.Equal(t, int64(1), s.Next())

	s.Reset(100)
	assert.Equal(t, int64(101), s.Next())
}

func TestSequence_ConcurrentNext(t *testing.T) {
	s := New()

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	seen := make([]map[int64]struct{}, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			local := make(map[int64]struct{}, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				local[s.Next()] = struct{}{}
			}
			seen[g] = local
		}(g)
	}
	wg.Wait()

	all := make(map[int64]struct{})
	for _, local := range seen {
		for id := range local {
			all[id] = struct{}{}
		}
	}
	assert.Len(t, all, goroutines*perGoroutine, "ids must be unique")
	assert.Equal(t, int64(goroutines*perGoroutine), s.Current())
}

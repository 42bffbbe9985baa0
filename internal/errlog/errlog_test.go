package errlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedRing(capacity int) *Ring {
	r := NewRing(capacity)
	r.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return r
}

func TestRingAddFormatsEntries(t *testing.T) {
	r := newFixedRing(5)
	r.Add("database unreachable")

	entries := r.Recent()
	require.Len(t, entries, 1)
	assert.Equal(t, "09:26:53 - database unreachable", entries[0])
}

func TestRingNewestFirst(t *testing.T) {
	r := newFixedRing(5)
	r.Add("first")
	r.Add("second")
	r.Add("third")

	entries := r.Recent()
	require.Len(t, entries, 3)
	assert.Equal(t, "09:26:53 - third", entries[0])
	assert.Equal(t, "09:26:53 - first", entries[2])
}

func TestRingEvictsOldestAtCapacity(t *testing.T) {
	r := newFixedRing(3)
	for i := 1; i <= 5; i++ {
		r.Add(fmt.Sprintf("err %d", i))
	}

	entries := r.Recent()
	require.Len(t, entries, 3)
	assert.Equal(t, "09:26:53 - err 5", entries[0])
	assert.Equal(t, "09:26:53 - err 3", entries[2])
}

func TestRingDefaultCapacity(t *testing.T) {
	r := newFixedRing(0)
	for i := 0; i < 40; i++ {
		r.Add("overflow")
	}
	assert.Len(t, r.Recent(), 15)
}

func TestRingClear(t *testing.T) {
	r := newFixedRing(5)
	r.Add("entry")
	r.Clear()
	assert.Empty(t, r.Recent())

	// Still usable after a clear.
	r.Add("again")
	assert.Len(t, r.Recent(), 1)
}

func TestRingRecentReturnsCopy(t *testing.T) {
	r := newFixedRing(5)
	r.Add("original")

	entries := r.Recent()
	entries[0] = "mutated"

	assert.Equal(t, "09:26:53 - original", r.Recent()[0])
}

func TestRingConcurrentAdds(t *testing.T) {
	r := NewRing(15)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Add(fmt.Sprintf("worker %d", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Recent(), 15)
}

func TestDiscardIsSilent(t *testing.T) {
	var s Sink = Discard{}
	s.Add("dropped")
	assert.Nil(t, s.Recent())
	s.Clear()
}

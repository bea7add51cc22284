package queue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("MinHeap", func(t *testing.T) {
		pq := NewMin(4)

		pq.PushItem(Item{Offset: 1, Distance: 10.0})
		pq.PushItem(Item{Offset: 2, Distance: 5.0})
		pq.PushItem(Item{Offset: 3, Distance: 20.0})
		require.Equal(t, 3, pq.Len())

		top, ok := pq.TopItem()
		require.True(t, ok)
		assert.Equal(t, 5.0, top.Distance)

		for _, want := range []float64{5, 10, 20} {
			item, ok := pq.PopItem()
			require.True(t, ok)
			assert.Equal(t, want, item.Distance)
		}

		_, ok = pq.PopItem()
		assert.False(t, ok)
	})

	t.Run("MaxHeap", func(t *testing.T) {
		pq := NewMax(4)

		pq.PushItem(Item{Offset: 1, Distance: 10.0})
		pq.PushItem(Item{Offset: 2, Distance: 5.0})
		pq.PushItem(Item{Offset: 3, Distance: 20.0})

		top, ok := pq.TopItem()
		require.True(t, ok)
		assert.Equal(t, 20.0, top.Distance)
	})

	t.Run("PushItemBounded", func(t *testing.T) {
		pq := NewMax(3)
		for i, d := range []float64{9, 1, 7, 3, 8, 2} {
			pq.PushItemBounded(Item{Offset: i, Distance: d}, 3)
		}
		require.Equal(t, 3, pq.Len())

		got := pq.DrainAscending()
		assert.Equal(t, []Item{{Offset: 1, Distance: 1}, {Offset: 5, Distance: 2}, {Offset: 3, Distance: 3}}, got)
		assert.Equal(t, 0, pq.Len())
	})

	t.Run("TieBreakByOffset", func(t *testing.T) {
		pq := NewMax(2)
		for _, off := range []int{7, 3, 5, 1} {
			pq.PushItemBounded(Item{Offset: off, Distance: 1}, 2)
		}

		got := pq.DrainAscending()
		assert.Equal(t, []Item{{Offset: 1, Distance: 1}, {Offset: 3, Distance: 1}}, got)
	})

	t.Run("ZeroCapacity", func(t *testing.T) {
		pq := NewMax(0)
		pq.PushItemBounded(Item{Offset: 1, Distance: 1}, 0)
		assert.Equal(t, 0, pq.Len())
	})

	t.Run("Reset", func(t *testing.T) {
		pq := NewMin(2)
		pq.PushItem(Item{Offset: 1, Distance: 1})
		pq.Reset()
		assert.Equal(t, 0, pq.Len())
		_, ok := pq.TopItem()
		assert.False(t, ok)
	})
}

func TestPriorityQueueRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	const k = 10
	items := make([]Item, 500)
	pq := NewMax(k)
	for i := range items {
		items[i] = Item{Offset: i, Distance: float64(rng.Intn(50))}
		pq.PushItemBounded(items[i], k)
	}

	sort.Slice(items, func(i, j int) bool { return before(items[i], items[j]) })
	assert.Equal(t, items[:k], pq.DrainAscending())
}

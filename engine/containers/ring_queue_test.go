package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue(t *testing.T) {
	rq := NewRingQueue[int](3)
	assert.True(t, rq.IsEmpty())
	_, err := rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	for i := 1; i <= 3; i++ {
		require.NoError(t, rq.Enqueue(i))
	}
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue(4), ErrQueueFull)

	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, rq.Enqueue(4))
	assert.Equal(t, []int{2, 3, 4}, rq.Items())
	assert.Equal(t, 3, rq.Len())
}

func TestRingQueuePush(t *testing.T) {
	rq := NewRingQueue[string](2)
	rq.Push("a")
	rq.Push("b")
	rq.Push("c")
	assert.Equal(t, []string{"b", "c"}, rq.Items())

	empty := NewRingQueue[string](0)
	empty.Push("a")
	assert.Empty(t, empty.Items())
}

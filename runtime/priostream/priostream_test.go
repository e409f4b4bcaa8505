package priostream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(a, b int) bool { return a < b }

func TestNewQueueIsEmpty(t *testing.T) {
	q := New[int](10, order)
	assert.True(t, q.IsEmpty())
	assert.False(t, q.IsFull())
}

func TestPushInsertsInOrderSmallestLast(t *testing.T) {
	q := New[int](10, order)
	q.Push(3)
	q.Push(4)
	q.Push(-1)
	q.Push(2)
	q.Push(5)
	assert.Equal(t, []int{5, 4, 3, 2, -1}, q.Slice())
}

func TestPushAllowsDuplicates(t *testing.T) {
	q := New[int](10, order)
	q.Push(3)
	q.Push(4)
	q.Push(-1)
	q.Push(2)
	q.Push(4)
	q.Push(5)
	assert.Equal(t, []int{5, 4, 4, 3, 2, -1}, q.Slice())
}

func TestResetRemovesPreviousOccurrence(t *testing.T) {
	q := New[int](10, order)
	q.Push(3)
	q.Push(4)
	q.Push(-1)
	q.Push(2)
	q.Push(4)
	q.Push(5)
	q.Reset(4, func(a, b int) bool { return a == b })
	assert.Equal(t, []int{5, 4, 3, 2, -1}, q.Slice())
}

func TestPopRemovesSmallestElementFirst(t *testing.T) {
	q := New[int](10, order)
	q.Push(3)
	q.Push(4)
	q.Push(2)
	q.Push(5)
	require.Equal(t, 4, q.Len())

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 3, q.Len())

	q.Push(-1)
	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, -1, v)
}

func TestPopOnEmptyQueueReturnsFalse(t *testing.T) {
	q := New[int](4, order)
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestPushPanicsWhenFull(t *testing.T) {
	q := New[int](1, order)
	q.Push(1)
	assert.Panics(t, func() { q.Push(2) })
}

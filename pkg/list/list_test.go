package list

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertListEqualsSlice makes sure the list elements match the expected slice in both directions.
func assertListEqualsSlice[V comparable](t *testing.T, expected []V, list *List[V]) {
	t.Helper()

	require.NoError(t, list.Validate())
	assert.Equal(t, len(expected), list.Len(), "List length mismatch")

	front, hasFront := list.Front()
	back, hasBack := list.Back()
	if len(expected) == 0 {
		assert.False(t, hasFront, "Empty list should have no Front()")
		assert.False(t, hasBack, "Empty list should have no Back()")
		assert.Empty(t, slices.Collect(list.All()))
		assert.Empty(t, slices.Collect(list.Backward()))
		return
	}

	// Check head and tail values.
	assert.True(t, hasFront)
	assert.True(t, hasBack)
	assert.Equal(t, expected[0], front, "Front() value mismatch")
	assert.Equal(t, expected[len(expected)-1], back, "Back() value mismatch")

	// Forward iteration.
	assert.Equal(t, expected, slices.Collect(list.All()), "Forward iteration mismatch")

	// Backward iteration.
	backwardResult := slices.Collect(list.Backward())
	slices.Reverse(backwardResult)
	assert.Equal(t, expected, backwardResult, "Backward iteration mismatch")
}

// assertPopped checks that a pop returned `expected`.
func assertPopped[V comparable](t *testing.T, expected V, got V, ok bool) {
	t.Helper()
	assert.True(t, ok, "Expected a value to be popped")
	assert.Equal(t, expected, got)
}

func TestList_ZeroValue(t *testing.T) {
	var list List[int]
	assertListEqualsSlice(t, []int{}, &list)
	list.PushBack(1)
	assertListEqualsSlice(t, []int{1}, &list)
}

func TestList_Push(t *testing.T) {
	t.Run("PushBack", func(t *testing.T) {
		list := New[int]()
		list.PushBack(1)
		assertListEqualsSlice(t, []int{1}, list)
		list.PushBack(2)
		assertListEqualsSlice(t, []int{1, 2}, list)
		list.PushBack(3)
		assertListEqualsSlice(t, []int{1, 2, 3}, list)
	})

	t.Run("PushFront", func(t *testing.T) {
		list := New[int]()
		list.PushFront(1)
		assertListEqualsSlice(t, []int{1}, list)
		list.PushFront(2)
		assertListEqualsSlice(t, []int{2, 1}, list)
		list.PushFront(3)
		assertListEqualsSlice(t, []int{3, 2, 1}, list)
	})

	t.Run("Mixed Push", func(t *testing.T) {
		list := New[int]()
		list.PushBack(2)
		list.PushFront(1)
		list.PushBack(3)
		assertListEqualsSlice(t, []int{1, 2, 3}, list)
	})
}

func TestList_Pop(t *testing.T) {
	newListOf := func(values ...int) *List[int] {
		list := New[int]()
		for _, v := range values {
			list.PushBack(v)
		}
		return list
	}

	t.Run("PopBack", func(t *testing.T) {
		list := newListOf(1, 2, 3)
		got, ok := list.PopBack()
		assertPopped(t, 3, got, ok)
		assertListEqualsSlice(t, []int{1, 2}, list)
	})

	t.Run("PopFront", func(t *testing.T) {
		list := newListOf(1, 2, 3)
		got, ok := list.PopFront()
		assertPopped(t, 1, got, ok)
		assertListEqualsSlice(t, []int{2, 3}, list)
	})

	t.Run("Pop the only element", func(t *testing.T) {
		list := newListOf(7)
		got, ok := list.PopBack()
		assertPopped(t, 7, got, ok)
		assertListEqualsSlice(t, []int{}, list)

		list = newListOf(7)
		got, ok = list.PopFront()
		assertPopped(t, 7, got, ok)
		assertListEqualsSlice(t, []int{}, list)
	})

	t.Run("Pop empty list", func(t *testing.T) {
		list := New[int]()
		for range 3 {
			got, ok := list.PopBack()
			assert.False(t, ok)
			assert.Zero(t, got)
			got, ok = list.PopFront()
			assert.False(t, ok)
			assert.Zero(t, got)
			assertListEqualsSlice(t, []int{}, list)
		}
	})
}

func TestList_FIFO(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e"}

	t.Run("PushBack then PopFront", func(t *testing.T) {
		list := New[string]()
		for _, v := range values {
			list.PushBack(v)
		}
		var popped []string
		for v, ok := list.PopFront(); ok; v, ok = list.PopFront() {
			popped = append(popped, v)
		}
		assert.Equal(t, values, popped)
	})

	t.Run("PushFront then PopBack", func(t *testing.T) {
		list := New[string]()
		for _, v := range values {
			list.PushFront(v)
		}
		var popped []string
		for v, ok := list.PopBack(); ok; v, ok = list.PopBack() {
			popped = append(popped, v)
		}
		assert.Equal(t, values, popped)
	})
}

func TestList_RoundTrip(t *testing.T) {
	for _, prefix := range [][]int{{}, {1}, {1, 2, 3}} {
		list := New[int]()
		for _, v := range prefix {
			list.PushBack(v)
		}

		list.PushBack(42)
		got, ok := list.PopBack()
		assertPopped(t, 42, got, ok)
		assertListEqualsSlice(t, prefix, list)

		list.PushFront(42)
		got, ok = list.PopFront()
		assertPopped(t, 42, got, ok)
		assertListEqualsSlice(t, prefix, list)
	}
}

func TestList_Scenario(t *testing.T) {
	list := New[int8]()
	list.PushBack(1)
	list.PushBack(2)
	list.PushBack(3)
	assertListEqualsSlice(t, []int8{1, 2, 3}, list)
	list.PushFront(4)
	list.PushFront(5)
	list.PushFront(6)
	assertListEqualsSlice(t, []int8{6, 5, 4, 1, 2, 3}, list)

	steps := []struct {
		pop      func() (int8, bool)
		popped   int8
		expected []int8
	}{
		{pop: list.PopBack, popped: 3, expected: []int8{6, 5, 4, 1, 2}},
		{pop: list.PopBack, popped: 2, expected: []int8{6, 5, 4, 1}},
		{pop: list.PopBack, popped: 1, expected: []int8{6, 5, 4}},
		{pop: list.PopFront, popped: 6, expected: []int8{5, 4}},
		{pop: list.PopFront, popped: 5, expected: []int8{4}},
		{pop: list.PopFront, popped: 4, expected: []int8{}},
	}
	for _, step := range steps {
		got, ok := step.pop()
		assertPopped(t, step.popped, got, ok)
		assertListEqualsSlice(t, step.expected, list)
	}

	_, ok := list.PopFront()
	assert.False(t, ok)
	assertListEqualsSlice(t, []int8{}, list)
}

func TestList_SlotReuse(t *testing.T) {
	list := New[int]()
	for i := range 4 {
		list.PushBack(i)
	}
	assert.Len(t, list.nodes, 4)

	// Churn at both ends; the arena must not grow past the peak size.
	for i := range 100 {
		if i%2 == 0 {
			_, ok := list.PopFront()
			require.True(t, ok)
			list.PushBack(i)
		} else {
			_, ok := list.PopBack()
			require.True(t, ok)
			list.PushFront(i)
		}
		require.NoError(t, list.Validate())
	}
	assert.Len(t, list.nodes, 4)
	assert.Equal(t, 4, list.Len())
}

func TestList_PopReleasesValue(t *testing.T) {
	list := New[*int]()
	v := new(int)
	list.PushBack(v)
	got, ok := list.PopBack()
	assert.True(t, ok)
	assert.Same(t, v, got)
	assert.Nil(t, list.nodes[0].value, "Popped slot should not keep its value")
	assert.Equal(t, []int{1}, list.free)
}

func TestList_Clear(t *testing.T) {
	list := New[int]()
	list.PushBack(1)
	list.PushFront(0)
	list.Clear()
	assertListEqualsSlice(t, []int{}, list)
	assert.Empty(t, list.nodes)
	list.PushBack(5)
	assertListEqualsSlice(t, []int{5}, list)
}

func TestList_Validate(t *testing.T) {
	newBroken := func() *List[int] {
		list := New[int]()
		list.PushBack(1)
		list.PushBack(2)
		list.PushBack(3)
		return list
	}

	t.Run("asymmetric link", func(t *testing.T) {
		list := newBroken()
		list.at(3).prev = 1
		assert.ErrorContains(t, list.Validate(), "links back")
	})
	t.Run("head with predecessor", func(t *testing.T) {
		list := newBroken()
		list.at(1).prev = 3
		assert.ErrorContains(t, list.Validate(), "has predecessor")
	})
	t.Run("tail with successor", func(t *testing.T) {
		list := newBroken()
		list.at(3).next = 1
		assert.ErrorContains(t, list.Validate(), "has successor")
	})
	t.Run("size mismatch", func(t *testing.T) {
		list := newBroken()
		list.size = 2
		assert.Error(t, list.Validate())
	})
	t.Run("half empty", func(t *testing.T) {
		list := newBroken()
		list.tail = none
		assert.ErrorContains(t, list.Validate(), "disagree on emptiness")
	})
}

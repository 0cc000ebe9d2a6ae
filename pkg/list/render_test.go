package list

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_String(t *testing.T) {
	list := New[int]()
	assert.Equal(t, "from head: (), from tail: ()", list.String())

	list.PushBack(1)
	assert.Equal(t, "from head: (1), from tail: (1)", list.String())

	list.PushBack(2)
	list.PushFront(0)
	assert.Equal(t, "from head: (0 <---> 1 <---> 2), from tail: (2 <---> 1 <---> 0)", list.String())
}

func TestList_RenderWithSlots(t *testing.T) {
	list := New[string]()
	list.PushBack("b")  // Slot 1.
	list.PushFront("a") // Slot 2.
	assert.Equal(t, "from head: (a @2 <---> b @1), from tail: (b @1 <---> a @2)", list.Render(true))
	assert.Equal(t, list.String(), list.Render(false))
}

func TestList_IteratorsAreRestartable(t *testing.T) {
	list := New[int]()
	for i := range 5 {
		list.PushBack(i)
	}

	forward := list.All()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, slices.Collect(forward))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, slices.Collect(forward))

	backward := list.Backward()
	assert.Equal(t, []int{4, 3, 2, 1, 0}, slices.Collect(backward))
	assert.Equal(t, []int{4, 3, 2, 1, 0}, slices.Collect(backward))
}

func TestList_IteratorsStopEarly(t *testing.T) {
	list := New[int]()
	for i := range 5 {
		list.PushBack(i)
	}

	var seen []int
	for v := range list.All() {
		if v == 2 {
			break
		}
		seen = append(seen, v)
	}
	assert.Equal(t, []int{0, 1}, seen)

	seen = nil
	for v := range list.Backward() {
		if v == 2 {
			break
		}
		seen = append(seen, v)
	}
	assert.Equal(t, []int{4, 3}, seen)
}

func TestList_TraversalsAreReversed(t *testing.T) {
	list := New[int]()
	// A fixed mixed sequence of pushes and pops.
	for i := range 50 {
		switch i % 5 {
		case 0, 1:
			list.PushBack(i)
		case 2:
			list.PushFront(i)
		case 3:
			list.PopFront()
		case 4:
			list.PopBack()
			list.PushFront(-i)
		}
		forward := slices.Collect(list.All())
		backward := slices.Collect(list.Backward())
		slices.Reverse(backward)
		assert.Equal(t, forward, backward)
		assert.Len(t, forward, list.Len())
	}
}

// Package list implements a generic doubly linked list with O(1) push and pop at both ends.
// Nodes live in an arena (a growable slice) and refer to their neighbors by slot index instead of by pointer,
// so there are no reference cycles and a popped node's slot is recycled by the next push.
// A List is not safe for concurrent use; callers sharing one across goroutines must guard it themselves.

package list

import "fmt"

// none is the absent reference. Slot indices are 1-based so that the zero value of List is an empty list.
const none = 0

// node represents a node in the doubly linked list.
type node[V any] struct {
	value V
	prev  int // Slot of the predecessor; `none` if this is the head.
	next  int // Slot of the successor; `none` if this is the tail.
}

// List represents a doubly linked list.
//
// The zero value is a ready to use empty list.
type List[V any] struct {
	nodes []node[V] // Arena; slot i lives at nodes[i-1].
	free  []int     // Vacated slots waiting to be reused.
	head  int
	tail  int
	size  int
}

// New returns an empty list.
func New[V any]() *List[V] {
	return new(List[V])
}

// at returns the node stored in the given slot.
func (l *List[V]) at(slot int) *node[V] {
	return &l.nodes[slot-1]
}

// alloc stores `v` in a free slot, growing the arena if there is none, and returns the slot.
func (l *List[V]) alloc(v V, prev, next int) int {
	if n := len(l.free); n > 0 {
		slot := l.free[n-1]
		l.free = l.free[:n-1]
		*l.at(slot) = node[V]{value: v, prev: prev, next: next}
		return slot
	}
	l.nodes = append(l.nodes, node[V]{value: v, prev: prev, next: next})
	return len(l.nodes)
}

// release detaches the node in `slot` from the arena and returns its value.
func (l *List[V]) release(slot int) V {
	n := l.at(slot)
	v := n.value
	*n = node[V]{} // Drop the value so whatever it references can be collected.
	l.free = append(l.free, slot)
	return v
}

// Len returns the number of elements in the list.
func (l *List[V]) Len() int {
	return l.size
}

// Front returns the first value of the list, or false if the list is empty.
func (l *List[V]) Front() (V, bool) {
	if l.head == none {
		var zero V
		return zero, false
	}
	return l.at(l.head).value, true
}

// Back returns the last value of the list, or false if the list is empty.
func (l *List[V]) Back() (V, bool) {
	if l.tail == none {
		var zero V
		return zero, false
	}
	return l.at(l.tail).value, true
}

// PushBack adds a new value to the back of the list.
func (l *List[V]) PushBack(v V) {
	slot := l.alloc(v, l.tail, none)
	if l.tail != none {
		l.at(l.tail).next = slot
	} else { // List was empty.
		l.head = slot
	}
	l.tail = slot
	l.size++
}

// PushFront adds a new value to the front of the list.
func (l *List[V]) PushFront(v V) {
	slot := l.alloc(v, none, l.head)
	if l.head != none {
		l.at(l.head).prev = slot
	} else { // List was empty.
		l.tail = slot
	}
	l.head = slot
	l.size++
}

// PopBack removes the last node and returns its value.
// It returns false if the list is empty; popping an empty list leaves it empty.
func (l *List[V]) PopBack() (V, bool) {
	if l.tail == none {
		var zero V
		return zero, false
	}
	removed := l.tail
	if prev := l.at(removed).prev; prev != none {
		l.at(prev).next = none
		l.tail = prev
	} else { // Removed the only node.
		l.head = none
		l.tail = none
	}
	l.size--
	return l.release(removed), true
}

// PopFront removes the first node and returns its value.
// It returns false if the list is empty; popping an empty list leaves it empty.
func (l *List[V]) PopFront() (V, bool) {
	if l.head == none {
		var zero V
		return zero, false
	}
	removed := l.head
	if next := l.at(removed).next; next != none {
		l.at(next).prev = none
		l.head = next
	} else { // Removed the only node.
		l.head = none
		l.tail = none
	}
	l.size--
	return l.release(removed), true
}

// Clear removes all elements and releases the arena.
func (l *List[V]) Clear() {
	*l = List[V]{}
}

// Validate walks the list in both directions and returns an error describing the first broken link.
func (l *List[V]) Validate() error {
	if (l.head == none) != (l.tail == none) {
		return fmt.Errorf("head slot %d and tail slot %d disagree on emptiness", l.head, l.tail)
	}
	if (l.head == none) != (l.size == 0) {
		return fmt.Errorf("list of size %d has head slot %d", l.size, l.head)
	}
	if l.head == none {
		return nil
	}
	if prev := l.at(l.head).prev; prev != none {
		return fmt.Errorf("head slot %d has predecessor slot %d", l.head, prev)
	}
	if next := l.at(l.tail).next; next != none {
		return fmt.Errorf("tail slot %d has successor slot %d", l.tail, next)
	}

	// Forward walk; the step bound catches cycles.
	count, last := 0, none
	for slot := l.head; slot != none; slot = l.at(slot).next {
		if count++; count > l.size {
			return fmt.Errorf("forward walk visited more than %d nodes", l.size)
		}
		if got := l.at(slot).prev; got != last {
			return fmt.Errorf("slot %d links back to %d instead of %d", slot, got, last)
		}
		last = slot
	}
	if count != l.size || last != l.tail {
		return fmt.Errorf("forward walk ended at slot %d after %d nodes, expected slot %d after %d",
			last, count, l.tail, l.size)
	}

	// Backward walk.
	count, last = 0, none
	for slot := l.tail; slot != none; slot = l.at(slot).prev {
		if count++; count > l.size {
			return fmt.Errorf("backward walk visited more than %d nodes", l.size)
		}
		last = slot
	}
	if count != l.size || last != l.head {
		return fmt.Errorf("backward walk ended at slot %d after %d nodes, expected slot %d after %d",
			last, count, l.head, l.size)
	}

	if used := len(l.nodes) - len(l.free); used != l.size {
		return fmt.Errorf("arena holds %d live slots but list has %d nodes", used, l.size)
	}
	return nil
}

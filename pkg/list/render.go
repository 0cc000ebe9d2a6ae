package list

import (
	"fmt"
	"iter"
	"strings"
)

// LinkMarker separates neighboring values in a rendered list.
const LinkMarker = " <---> "

// All returns an iterator over the values from head to tail.
// The list must not be modified while iterating.
func (l *List[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range l.Slots() {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward returns an iterator over the values from tail to head.
// The list must not be modified while iterating.
func (l *List[V]) Backward() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range l.BackwardSlots() {
			if !yield(v) {
				return
			}
		}
	}
}

// Slots returns an iterator over (slot, value) pairs from head to tail.
// A slot identifies a node for as long as it stays in the list.
func (l *List[V]) Slots() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for slot := l.head; slot != none; slot = l.at(slot).next {
			if !yield(slot, l.at(slot).value) {
				return
			}
		}
	}
}

// BackwardSlots returns an iterator over (slot, value) pairs from tail to head.
func (l *List[V]) BackwardSlots() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for slot := l.tail; slot != none; slot = l.at(slot).prev {
			if !yield(slot, l.at(slot).value) {
				return
			}
		}
	}
}

// String renders the list from head and from tail, e.g. "from head: (1 <---> 2), from tail: (2 <---> 1)".
func (l *List[V]) String() string {
	return l.Render(false /*withSlots*/)
}

// Render is like String; if `withSlots` is set, every value is followed by " @<slot>".
func (l *List[V]) Render(withSlots bool) string {
	var sb strings.Builder
	sb.WriteString("from head: ")
	writeChain(&sb, l.Slots(), withSlots)
	sb.WriteString(", from tail: ")
	writeChain(&sb, l.BackwardSlots(), withSlots)
	return sb.String()
}

func writeChain[V any](sb *strings.Builder, chain iter.Seq2[int, V], withSlots bool) {
	sb.WriteByte('(')
	first := true
	for slot, v := range chain {
		if !first {
			sb.WriteString(LinkMarker)
		}
		first = false
		_, _ = fmt.Fprint(sb, v)
		if withSlots {
			_, _ = fmt.Fprintf(sb, " @%d", slot)
		}
	}
	sb.WriteByte(')')
}

// Package demo runs a fixed sequence of pushes and pops on a list and prints the list after every step.

package demo

import (
	"fmt"
	"io"

	"github.com/nobletooth/dlist/pkg/list"
)

// Options tweak the demo output.
type Options struct {
	ShowSlots bool // Print the arena slot next to every value.
}

// printer writes the list state and pop results, remembering the first write error.
type printer struct {
	w    io.Writer
	opts Options
	err  error
}

func (p *printer) println(a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, a...)
}

func (p *printer) section(title string, first bool) {
	if !first {
		p.println()
	}
	p.println("[" + title + "]")
}

func (p *printer) state(l *list.List[int8]) {
	p.println(l.Render(p.opts.ShowSlots))
}

// popped reports the result of a pop, covering the empty list case.
func (p *printer) popped(v int8, ok bool) {
	if !ok {
		p.println("list is empty")
		return
	}
	p.println("removed node:", v)
}

// Run executes the demo and writes its transcript to `w`.
func Run(w io.Writer, opts Options) error {
	p := &printer{w: w, opts: opts}
	l := list.New[int8]()

	p.section("push_back test", true /*first*/)
	p.state(l)
	for _, v := range []int8{1, 2, 3} {
		l.PushBack(v)
		p.state(l)
	}

	p.section("push_front test", false /*first*/)
	for _, v := range []int8{4, 5, 6} {
		l.PushFront(v)
		p.state(l)
	}

	p.section("pop_back test", false /*first*/)
	for range 3 {
		p.popped(l.PopBack())
		p.state(l)
	}

	// The last pop hits an empty list.
	p.section("pop_front test", false /*first*/)
	for range 4 {
		p.popped(l.PopFront())
		p.state(l)
	}

	if p.err != nil {
		return fmt.Errorf("failed to write demo output: %w", p.err)
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("list is corrupted after demo: %w", err)
	}
	return nil
}

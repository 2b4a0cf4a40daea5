package dropdown

import (
	"iter"
	"reflect"
)

// Wrapper pairs an item with its rendered label.
// Wrappers are never mutated; a changed item or display func yields a new one.
type Wrapper[T any] struct {
	value T
	text  string
	index int // position in the item snapshot
}

// Value returns the wrapped item.
func (w Wrapper[T]) Value() T { return w.value }

// Text returns the cached display label.
func (w Wrapper[T]) Text() string { return w.text }

// Index returns the item's position in the source list.
func (w Wrapper[T]) Index() int { return w.index }

// ComputeVisibleItems wraps items in source order, keeping only those that
// match search when filter is set and search is non-empty. Labels are
// computed on every iteration.
func ComputeVisibleItems[T any](items []T, search string, display func(T) string, filter func(item T, search string) bool) iter.Seq[Wrapper[T]] {
	if display == nil {
		display = DefaultDisplay[T]
	}
	return func(yield func(Wrapper[T]) bool) {
		for i, item := range items {
			if filter != nil && search != "" && !filter(item, search) {
				continue
			}
			if !yield(Wrapper[T]{value: item, text: display(item), index: i}) {
				return
			}
		}
	}
}

// label is a cached display text and the item it was computed from.
type label[T any] struct {
	item T
	text string
	gen  uint64 // display func generation the text was computed with
}

// wrapperCache holds one lazily built label per item position. Wrappers
// always carry the item of the current snapshot; only labels are reused.
type wrapperCache[T any] struct {
	entries []*label[T]
	gen     uint64
}

// at returns the wrapper for items[i], computing its label on first use.
func (c *wrapperCache[T]) at(items []T, i int, display func(T) string) Wrapper[T] {
	l := c.entries[i]
	if l == nil || l.gen != c.gen {
		l = &label[T]{item: items[i], text: display(items[i]), gen: c.gen}
		c.entries[i] = l
	}
	return Wrapper[T]{value: items[i], text: l.text, index: i}
}

// reset starts a fresh item snapshot. A position keeps its label only if
// the new item is the same item by compare and is structurally unchanged.
func (c *wrapperCache[T]) reset(items []T, compare func(a, b T) bool) {
	next := make([]*label[T], len(items))
	for i, item := range items {
		if i >= len(c.entries) {
			break
		}
		old := c.entries[i]
		if old == nil || old.gen != c.gen {
			continue
		}
		if compare(old.item, item) && reflect.DeepEqual(old.item, item) {
			next[i] = &label[T]{item: item, text: old.text, gen: c.gen}
		}
	}
	c.entries = next
}

// invalidate drops every cached label, e.g. after the display func changed.
func (c *wrapperCache[T]) invalidate() {
	c.gen++
}

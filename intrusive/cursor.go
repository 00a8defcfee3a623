package intrusive

import (
	"golang.org/x/exp/constraints"

	"github.com/joeycumines/go-coopsync/internal/checks"
)

// Cursor is a position within a locked [List], used to traverse and mutate
// it. Cursors are only obtainable via [List.WithCursor] (or an equivalent),
// and are valid only until that call returns.
//
// A cursor is either positioned, at an element with a known index, or
// unpositioned. Traversals start at the current element, or the head if
// unpositioned.
type Cursor[T any] struct {
	list    *List[T]
	lock    listLock[T]
	current *node[T]
	index   int
	done    bool
}

func (c *Cursor[T]) invalidate() {
	c.done = true
	c.current = nil
}

func (c *Cursor[T]) check() {
	if checks.Enabled && c.done {
		panic(`intrusive: cursor used outside of its lock scope`)
	}
}

func (c *Cursor[T]) raw() *rawList[T] { return &c.list.raw }

// Len returns the number of linked items.
func (c *Cursor[T]) Len() int {
	c.check()
	return c.raw().len
}

// IsEmpty reports whether the list has no linked items.
func (c *Cursor[T]) IsEmpty() bool { return c.Len() == 0 }

// Index returns the index of the current element, or -1 if unpositioned.
func (c *Cursor[T]) Index() int {
	c.check()
	if c.current == nil {
		return -1
	}
	return c.index
}

// Get returns a pointer to the current element's value, or nil if
// unpositioned.
func (c *Cursor[T]) Get() *T {
	c.check()
	if c.current == nil {
		return nil
	}
	return c.current.data.Ptr()
}

// IsHead reports whether the cursor is positioned at the head.
func (c *Cursor[T]) IsHead() bool {
	c.check()
	return c.current != nil && c.current.links.isHead()
}

// IsTail reports whether the cursor is positioned at the tail.
func (c *Cursor[T]) IsTail() bool {
	c.check()
	return c.current != nil && c.current.links.isTail()
}

func (c *Cursor[T]) reset() {
	c.current = nil
	c.index = 0
}

// SeekHead moves to the head, returning false (unpositioned) if the list is
// empty.
func (c *Cursor[T]) SeekHead() bool {
	c.check()
	c.current, c.index = c.raw().head, 0
	return c.current != nil
}

// SeekTail moves to the tail, returning false (unpositioned) if the list is
// empty.
func (c *Cursor[T]) SeekTail() bool {
	c.check()
	r := c.raw()
	if r.tail == nil {
		c.reset()
		return false
	}
	c.current, c.index = r.tail, r.len-1
	return true
}

// SeekNext moves to the next element, wrapping from the tail to the head.
// An unpositioned cursor moves to the head.
func (c *Cursor[T]) SeekNext() bool {
	c.check()
	if c.current == nil || c.current.links.isTail() {
		return c.SeekHead()
	}
	c.current = c.current.links.getNext()
	c.index++
	return true
}

// SeekPrev moves to the previous element, wrapping from the head to the
// tail. An unpositioned cursor moves to the tail.
func (c *Cursor[T]) SeekPrev() bool {
	c.check()
	if c.current == nil || c.current.links.isHead() {
		return c.SeekTail()
	}
	c.current = c.current.links.getPrev()
	c.index--
	return true
}

// Seek moves to the element at index, saturating at the tail, returning
// false (unpositioned) if the list is empty. It walks from whichever of the
// current element, the head, or the tail is nearest. It panics if index is
// negative.
func (c *Cursor[T]) Seek(index int) bool {
	c.check()
	if index < 0 {
		panic(`intrusive: seek: negative index`)
	}
	if c.raw().len == 0 {
		c.reset()
		return false
	}
	index = min(index, c.raw().len-1)
	n, i := c.planSeek(index)
	for i < index {
		n = n.links.getNext()
		i++
	}
	for i > index {
		n = n.links.getPrev()
		i--
	}
	c.current, c.index = n, i
	return true
}

// planSeek returns the starting point for a walk to index, which must be
// non-negative, in a non-empty list. Ties prefer the current element, then
// the head.
func (c *Cursor[T]) planSeek(index int) (*node[T], int) {
	r := c.raw()
	last := r.len - 1
	if index >= last {
		return r.tail, last
	}
	start, startIndex, cost := r.head, 0, index
	if d := last - index; d < cost {
		start, startIndex, cost = r.tail, last, d
	}
	if c.current != nil && absDiff(c.index, index) <= cost {
		start, startIndex = c.current, c.index
	}
	return start, startIndex
}

func absDiff[N constraints.Integer](a, b N) N {
	if a > b {
		return a - b
	}
	return b - a
}

func (c *Cursor[T]) checkInsert(item *Item[T]) {
	c.check()
	c.list.checkOwner(item)
	if item.node.links.isLinked() {
		panic(`intrusive: node already linked`)
	}
}

// InsertHead links item at the head, moving the cursor to it, and returns a
// pointer to its value. It panics if the item is already linked, or belongs
// to a different list.
func (c *Cursor[T]) InsertHead(item *Item[T]) *T {
	c.checkInsert(item)
	c.raw().insertHead(c.lock, &item.node)
	c.current, c.index = &item.node, 0
	return item.node.data.Ptr()
}

// InsertTail links item at the tail, moving the cursor to it, and returns a
// pointer to its value.
func (c *Cursor[T]) InsertTail(item *Item[T]) *T {
	c.checkInsert(item)
	c.raw().insertTail(c.lock, &item.node)
	c.current, c.index = &item.node, c.raw().len-1
	return item.node.data.Ptr()
}

// Insert links item such that it has the given index, appending if index is
// beyond the tail, moving the cursor to it. It panics if index is negative.
func (c *Cursor[T]) Insert(index int, item *Item[T]) *T {
	if index < 0 {
		panic(`intrusive: insert: negative index`)
	}
	c.checkInsert(item)
	if index == 0 {
		return c.InsertHead(item)
	}
	if index >= c.raw().len {
		return c.InsertTail(item)
	}
	c.Seek(index)
	c.raw().insertBefore(c.lock, c.current, &item.node)
	c.current = &item.node
	return item.node.data.Ptr()
}

// InsertBefore links item before the first element, scanning from the head,
// for which f returns true, or at the head if there is no such element. It
// returns the index of the inserted item, and moves the cursor to it.
func (c *Cursor[T]) InsertBefore(item *Item[T], f func(index int, existing, inserting *T) bool) int {
	c.checkInsert(item)
	index, ok := c.positionFor(item, f)
	if !ok {
		c.InsertHead(item)
		return 0
	}
	c.raw().insertBefore(c.lock, c.current, &item.node)
	c.current = &item.node
	return index
}

// InsertAfter links item after the first element, scanning from the head,
// for which f returns true, or at the tail if there is no such element. It
// returns the index of the inserted item, and moves the cursor to it.
func (c *Cursor[T]) InsertAfter(item *Item[T], f func(index int, existing, inserting *T) bool) int {
	c.checkInsert(item)
	index, ok := c.positionFor(item, f)
	if !ok {
		c.InsertTail(item)
		return c.index
	}
	c.raw().insertAfter(c.lock, c.current, &item.node)
	c.current = &item.node
	c.index = index + 1
	return c.index
}

func (c *Cursor[T]) positionFor(item *Item[T], f func(index int, existing, inserting *T) bool) (int, bool) {
	inserting := item.node.data.Borrow()
	defer item.node.data.Release()
	c.reset()
	return c.Position(func(index int, existing *T) bool {
		return f(index, existing, inserting)
	})
}

// Remove unlinks the current element, returning false if unpositioned. The
// cursor moves to the successor, which takes the same index, or becomes
// unpositioned if the removed element was the tail.
func (c *Cursor[T]) Remove() bool {
	c.check()
	n := c.current
	if n == nil {
		return false
	}
	next := n.links.getNext()
	c.raw().remove(c.lock, n)
	if next == nil {
		c.reset()
	} else {
		c.current = next
	}
	return true
}

// RemoveItem unlinks item, returning false if it was not linked. If item
// was the current element this behaves like [Cursor.Remove], otherwise the
// cursor becomes unpositioned.
func (c *Cursor[T]) RemoveItem(item *Item[T]) bool {
	c.check()
	c.list.checkOwner(item)
	if c.current == &item.node {
		return c.Remove()
	}
	if !c.raw().remove(c.lock, &item.node) {
		return false
	}
	c.reset()
	return true
}

package intrusive

import (
	"github.com/joeycumines/go-coopsync/rawmutex"
)

// List is a doubly-linked list of caller-owned [Item] values. It owns no
// storage. The zero value is an empty list, guarded by an internal
// [rawmutex.Std].
//
// A List must not be copied after first use.
type List[T any] struct {
	mu       rawmutex.Mutex
	fallback rawmutex.Std
	raw      rawList[T]
}

// New returns an empty list guarded by mu. A nil mu is equivalent to the
// zero value.
func New[T any](mu rawmutex.Mutex) *List[T] {
	return new(List[T]).Init(mu)
}

// Init sets the mutex guarding l, which must be empty and not yet in use,
// returning l. This allows a List to be embedded by value.
func (l *List[T]) Init(mu rawmutex.Mutex) *List[T] {
	l.mu = mu
	return l
}

func (l *List[T]) mutex() rawmutex.Mutex {
	if l.mu != nil {
		return l.mu
	}
	return &l.fallback
}

// WithCursor calls fn with an unpositioned [Cursor], while holding the list
// lock. The cursor must not be retained past the return of fn.
func (l *List[T]) WithCursor(fn func(c *Cursor[T])) {
	l.mutex().Lock(func() {
		c := Cursor[T]{list: l, lock: l.raw.mint()}
		defer c.invalidate()
		fn(&c)
	})
}

// Locked calls fn with a cursor, as per [List.WithCursor], returning the
// result.
func Locked[T, R any](l *List[T], fn func(c *Cursor[T]) R) (r R) {
	l.WithCursor(func(c *Cursor[T]) { r = fn(c) })
	return
}

// Len returns the number of linked items.
func (l *List[T]) Len() int {
	return Locked(l, (*Cursor[T]).Len)
}

// NewStore returns an unlinked [Item] bound to this list, holding value.
func (l *List[T]) NewStore(value T) *Item[T] {
	item := &Item[T]{list: l}
	*item.node.data.Ptr() = value
	return item
}

// Store calls fn with a new [Item] holding value, removing the item from
// the list when fn returns, including by panic.
func (l *List[T]) Store(value T, fn func(item *Item[T])) {
	item := l.NewStore(value)
	defer item.Remove()
	fn(item)
}

// Remove unlinks item, returning false if it was not linked. It panics if
// the item belongs to a different list.
func (l *List[T]) Remove(item *Item[T]) bool {
	l.checkOwner(item)
	return Locked(l, func(c *Cursor[T]) bool {
		return c.RemoveItem(item)
	})
}

func (l *List[T]) checkOwner(item *Item[T]) {
	if item.list != l {
		panic(`intrusive: item does not belong to this list`)
	}
}

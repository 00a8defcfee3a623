package intrusive

// Item is a registration guard: a list element stored in caller-owned
// memory, bound to the [List] that created it. It starts unlinked, and
// must be removed before it is discarded, typically by deferring
// [Item.Close], or by using [List.Store].
//
// An Item must not be copied.
type Item[T any] struct {
	_    noCopy
	node node[T]
	list *List[T]
}

// noCopy may be embedded into structs which must not be copied after first
// use, see https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// List returns the list this item belongs to.
func (x *Item[T]) List() *List[T] { return x.list }

// IsLinked reports whether the item is currently linked into its list.
func (x *Item[T]) IsLinked() bool { return x.node.linked.Load() }

// Lock calls fn with exclusive access to the item's value. If the item is
// unlinked, no cursor can reach it, and the list lock is not taken.
// Otherwise, fn is called while holding the list lock.
//
// The unlinked fast path assumes the item is not concurrently linked, i.e.
// that the owner of the item is the only party that links it.
func (x *Item[T]) Lock(fn func(value *T)) {
	if !x.node.linked.Load() {
		x.node.data.With(fn)
		return
	}
	x.list.WithCursor(func(c *Cursor[T]) {
		x.node.data.With(fn)
	})
}

// Get returns a pointer to the item's value, proven exclusive by the
// cursor, which must belong to the same list. The pointer must not be
// retained past the cursor's lock scope.
func (x *Item[T]) Get(c *Cursor[T]) *T {
	c.check()
	if c.list != x.list {
		panic(`intrusive: cursor does not belong to this item's list`)
	}
	return x.node.data.Ptr()
}

// WithCursor calls fn with a cursor of the item's list, as per
// [List.WithCursor].
func (x *Item[T]) WithCursor(fn func(c *Cursor[T])) {
	x.list.WithCursor(fn)
}

// Remove unlinks the item, returning false if it was not linked. It is
// safe to call multiple times.
func (x *Item[T]) Remove() bool {
	if !x.node.linked.Load() {
		return false
	}
	return x.list.Remove(x)
}

// Close removes the item from its list. It always returns nil, and
// satisfies io.Closer.
func (x *Item[T]) Close() error {
	x.Remove()
	return nil
}

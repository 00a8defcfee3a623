package intrusive

// innerFold visits elements in order, starting at the current element (or
// the head, if unpositioned), until f returns false, or the tail has been
// visited. It returns the accumulator, and true if f stopped the scan, in
// which case the cursor is left at the element that stopped it.
//
// The only cursor mutation f may perform is [Cursor.Remove] of the element
// being visited, in which case the scan continues from its successor.
func innerFold[T, A any](c *Cursor[T], acc A, f func(acc A, index int, value *T) (A, bool)) (A, bool) {
	c.check()
	if c.current == nil && !c.SeekHead() {
		return acc, false
	}
	for {
		n := c.current
		var ok bool
		acc, ok = visit(n, acc, c.index, f)
		switch {
		case c.current != n:
			// removed, now at the successor
			if c.current == nil {
				return acc, !ok
			}
			if !ok {
				return acc, true
			}
		case !ok:
			return acc, true
		case n.links.isTail():
			return acc, false
		default:
			c.current = n.links.getNext()
			c.index++
		}
	}
}

func visit[T, A any](n *node[T], acc A, index int, f func(acc A, index int, value *T) (A, bool)) (A, bool) {
	value := n.data.Borrow()
	defer n.data.Release()
	return f(acc, index, value)
}

// ForEach calls f for each element, from the current position.
func (c *Cursor[T]) ForEach(f func(index int, value *T)) {
	innerFold(c, struct{}{}, func(acc struct{}, index int, value *T) (struct{}, bool) {
		f(index, value)
		return acc, true
	})
}

// TryForEach calls f for each element, from the current position, stopping
// at the first error, which is returned. The cursor is left at the element
// that failed.
func (c *Cursor[T]) TryForEach(f func(index int, value *T) error) error {
	err, _ := innerFold(c, error(nil), func(_ error, index int, value *T) (error, bool) {
		err := f(index, value)
		return err, err == nil
	})
	return err
}

// Any reports whether f returns true for any element, from the current
// position. The cursor is left at the first match.
func (c *Cursor[T]) Any(f func(index int, value *T) bool) bool {
	_, found := c.Position(f)
	return found
}

// All reports whether f returns true for every element, from the current
// position. The cursor is left at the first mismatch.
func (c *Cursor[T]) All(f func(index int, value *T) bool) bool {
	_, stopped := innerFold(c, struct{}{}, func(acc struct{}, index int, value *T) (struct{}, bool) {
		return acc, f(index, value)
	})
	return !stopped
}

// Position returns the index of the first element, from the current
// position, for which f returns true. The cursor is left at the match.
func (c *Cursor[T]) Position(f func(index int, value *T) bool) (int, bool) {
	return innerFold(c, -1, func(acc int, index int, value *T) (int, bool) {
		if f(index, value) {
			return index, false
		}
		return acc, true
	})
}

// Retain removes every element, from the current position, for which f
// returns false, returning the number removed. The index passed to f is
// the element's index at the time it is visited, i.e. after any preceding
// removals. The cursor is left at the tail, or unpositioned if the tail was
// removed.
func (c *Cursor[T]) Retain(f func(index int, value *T) bool) int {
	removed, _ := innerFold(c, 0, func(acc int, index int, value *T) (int, bool) {
		if !f(index, value) {
			c.Remove()
			acc++
		}
		return acc, true
	})
	return removed
}

// Fold combines every element, from the current position, into an
// accumulator, starting with init.
func Fold[T, A any](c *Cursor[T], init A, f func(acc A, index int, value *T) A) A {
	acc, _ := innerFold(c, init, func(acc A, index int, value *T) (A, bool) {
		return f(acc, index, value), true
	})
	return acc
}

// TryFold is like [Fold], but stops at the first error, returning the
// accumulator as of that point, and the error.
func TryFold[T, A any](c *Cursor[T], init A, f func(acc A, index int, value *T) (A, error)) (A, error) {
	type state struct {
		acc A
		err error
	}
	s, _ := innerFold(c, state{acc: init}, func(s state, index int, value *T) (state, bool) {
		acc, err := f(s.acc, index, value)
		if err != nil {
			return state{acc: s.acc, err: err}, false
		}
		return state{acc: acc}, true
	})
	return s.acc, s.err
}

// Find returns the first result of f, from the current position, that is
// ok. The cursor is left at the element that produced it.
func Find[T, R any](c *Cursor[T], f func(index int, value *T) (R, bool)) (R, bool) {
	type state struct {
		result R
		ok     bool
	}
	s, _ := innerFold(c, state{}, func(s state, index int, value *T) (state, bool) {
		if result, ok := f(index, value); ok {
			return state{result, true}, false
		}
		return s, true
	})
	return s.result, s.ok
}

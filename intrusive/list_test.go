package intrusive

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-coopsync/internal/checks"
	"github.com/joeycumines/go-coopsync/rawmutex"
)

// newInts links items holding values, at the tail, in order.
func newInts(l *List[int], values ...int) []*Item[int] {
	items := make([]*Item[int], len(values))
	l.WithCursor(func(c *Cursor[int]) {
		for i, v := range values {
			items[i] = l.NewStore(v)
			c.InsertTail(items[i])
		}
	})
	return items
}

func values[T any](l *List[T]) (s []T) {
	l.WithCursor(func(c *Cursor[T]) {
		c.ForEach(func(_ int, v *T) { s = append(s, *v) })
	})
	return
}

// checkList verifies the link-state invariants, walking both directions.
func checkList[T any](t *testing.T, l *List[T]) {
	t.Helper()
	l.WithCursor(func(c *Cursor[T]) {
		r := &l.raw
		if r.len == 0 {
			require.Nil(t, r.head)
			require.Nil(t, r.tail)
			return
		}
		require.NotNil(t, r.head)
		require.NotNil(t, r.tail)
		require.True(t, r.head.links.isHead(), r.head.links.kind.String())
		require.True(t, r.tail.links.isTail(), r.tail.links.kind.String())
		var forward []*node[T]
		for n := r.head; n != nil; n = n.links.getNext() {
			require.True(t, n.linked.Load())
			forward = append(forward, n)
			require.LessOrEqual(t, len(forward), r.len, `cycle or length mismatch`)
		}
		require.Len(t, forward, r.len)
		require.Same(t, r.tail, forward[len(forward)-1])
		i := len(forward) - 1
		for n := r.tail; n != nil; n = n.links.getPrev() {
			require.Same(t, forward[i], n)
			i--
		}
		require.Equal(t, -1, i)
	})
}

func TestList_order(t *testing.T) {
	var l List[int]
	items := newInts(&l, 1, 2, 3, 4)
	checkList(t, &l)
	assert.Equal(t, []int{1, 2, 3, 4}, values(&l))
	assert.Equal(t, 4, l.Len())

	assert.True(t, items[0].Remove())
	checkList(t, &l)
	assert.Equal(t, []int{2, 3, 4}, values(&l))
	assert.False(t, items[0].Remove())
	assert.False(t, items[0].IsLinked())

	assert.True(t, l.Remove(items[3]))
	assert.True(t, items[1].Remove())
	checkList(t, &l)
	assert.Equal(t, []int{3}, values(&l))

	assert.True(t, items[2].Remove())
	checkList(t, &l)
	assert.Nil(t, values(&l))
	assert.Equal(t, 0, l.Len())
}

func TestList_removeMiddle(t *testing.T) {
	l := New[string](rawmutex.Noop{})
	a, b, c := l.NewStore(`a`), l.NewStore(`b`), l.NewStore(`c`)
	l.WithCursor(func(cur *Cursor[string]) {
		cur.InsertTail(a)
		cur.InsertTail(b)
		cur.InsertTail(c)
	})
	require.NoError(t, b.Close())
	checkList(t, l)
	assert.Equal(t, []string{`a`, `c`}, values(l))

	// relink a removed item
	l.WithCursor(func(cur *Cursor[string]) {
		cur.InsertHead(b)
	})
	checkList(t, l)
	assert.Equal(t, []string{`b`, `a`, `c`}, values(l))
}

func TestList_Store(t *testing.T) {
	var l List[int]
	newInts(&l, 1, 3)

	l.Store(2, func(item *Item[int]) {
		l.WithCursor(func(c *Cursor[int]) {
			c.Insert(1, item)
		})
		assert.Equal(t, []int{1, 2, 3}, values(&l))
	})
	checkList(t, &l)
	assert.Equal(t, []int{1, 3}, values(&l))

	// removed on panic, too
	assert.PanicsWithValue(t, `some panic`, func() {
		l.Store(4, func(item *Item[int]) {
			l.WithCursor(func(c *Cursor[int]) { c.InsertTail(item) })
			panic(`some panic`)
		})
	})
	checkList(t, &l)
	assert.Equal(t, []int{1, 3}, values(&l))
}

func TestList_guardAutoRemoval(t *testing.T) {
	var l List[int]
	register := func(v int) {
		item := l.NewStore(v)
		defer item.Close()
		l.WithCursor(func(c *Cursor[int]) { c.InsertTail(item) })
		assert.True(t, item.IsLinked())
	}
	register(1)
	register(2)
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, values(&l))
}

func TestList_mismatchedItem(t *testing.T) {
	var a, b List[int]
	item := a.NewStore(1)
	assert.Same(t, &a, item.List())
	assert.PanicsWithValue(t, `intrusive: item does not belong to this list`, func() { b.Remove(item) })
	assert.PanicsWithValue(t, `intrusive: item does not belong to this list`, func() {
		b.WithCursor(func(c *Cursor[int]) { c.InsertTail(item) })
	})
	assert.False(t, item.IsLinked())
	assert.Equal(t, 0, b.Len())
}

func TestList_mismatchedLock(t *testing.T) {
	if !checks.Enabled {
		t.Skip(`checks disabled`)
	}
	var a, b List[int]
	item := a.NewStore(1)
	a.WithCursor(func(ca *Cursor[int]) {
		b.WithCursor(func(cb *Cursor[int]) {
			assert.PanicsWithValue(t, `intrusive: list lock does not belong to this list`, func() {
				a.raw.insertTail(cb.lock, &item.node)
			})
		})
	})
	assert.False(t, item.IsLinked())
}

func TestList_doubleLink(t *testing.T) {
	var l List[int]
	items := newInts(&l, 1)
	l.WithCursor(func(c *Cursor[int]) {
		assert.PanicsWithValue(t, `intrusive: node already linked`, func() { c.InsertTail(items[0]) })
		assert.PanicsWithValue(t, `intrusive: node already linked`, func() { l.raw.insertHead(c.lock, &items[0].node) })
	})
	checkList(t, &l)
}

func TestLinks_invalidTransitions(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		kind linkKind
		fn   func(x *links[int])
		want string
	}{
		{`setPrev unlinked`, linkUnlinked, func(x *links[int]) { x.setPrev(nil) }, `intrusive: set prev of unlinked node`},
		{`setNext unlinked`, linkUnlinked, func(x *links[int]) { x.setNext(nil) }, `intrusive: set next of unlinked node`},
		{`clearPrev head`, linkHead, (*links[int]).clearPrev, `intrusive: clear prev of head node`},
		{`clearPrev single`, linkSingle, (*links[int]).clearPrev, `intrusive: clear prev of single node`},
		{`clearNext tail`, linkTail, (*links[int]).clearNext, `intrusive: clear next of tail node`},
		{`clearNext unlinked`, linkUnlinked, (*links[int]).clearNext, `intrusive: clear next of unlinked node`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x := links[int]{kind: tc.kind}
			assert.PanicsWithValue(t, tc.want, func() { tc.fn(&x) })
		})
	}
	assert.Equal(t, `linkKind(9)`, linkKind(9).String())
}

func TestLinks_transitions(t *testing.T) {
	var a, b node[int]
	var x links[int]
	x.kind = linkSingle
	x.setPrev(&a)
	assert.Equal(t, linkTail, x.kind)
	x.setNext(&b)
	assert.Equal(t, linkFull, x.kind)
	x.clearPrev()
	assert.Equal(t, linkHead, x.kind)
	x.clearNext()
	assert.Equal(t, linkSingle, x.kind)
	assert.True(t, x.isHead())
	assert.True(t, x.isTail())
	old := x.clear()
	assert.Equal(t, linkSingle, old.kind)
	assert.False(t, x.isLinked())
}

func TestList_concurrent(t *testing.T) {
	var l List[int]
	const (
		workers    = 8
		iterations = 200
	)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Store(w*iterations+i, func(item *Item[int]) {
					l.WithCursor(func(c *Cursor[int]) {
						switch i % 3 {
						case 0:
							c.InsertHead(item)
						case 1:
							c.InsertTail(item)
						default:
							c.Insert(c.Len()/2, item)
						}
					})
					item.Lock(func(v *int) {
						if *v != w*iterations+i {
							panic(fmt.Sprintf(`unexpected value %d`, *v))
						}
					})
				})
			}
		}()
	}
	wg.Wait()
	checkList(t, &l)
	assert.Equal(t, 0, l.Len())
}

package intrusive

import (
	"fmt"
	"sync/atomic"

	"github.com/joeycumines/go-coopsync/internal/debugcell"
)

type (
	// node is the in-place record for a list element. Its address is its
	// identity, and it must not be copied while linked.
	node[T any] struct {
		// links is guarded by the list lock
		links links[T]
		data  debugcell.Cell[T]
		// linked mirrors links.isLinked, for the unlocked fast path of
		// Item.Lock, it is only written while holding the list lock
		linked atomic.Bool
	}

	// links models the relationship between a node and its neighbors.
	// Invariant: prev is non-nil iff kind is linkTail or linkFull, and next
	// is non-nil iff kind is linkHead or linkFull.
	links[T any] struct {
		prev *node[T]
		next *node[T]
		kind linkKind
	}

	linkKind uint8
)

const (
	linkUnlinked linkKind = iota
	linkSingle
	linkHead
	linkTail
	linkFull
)

func (x linkKind) String() string {
	switch x {
	case linkUnlinked:
		return `unlinked`
	case linkSingle:
		return `single`
	case linkHead:
		return `head`
	case linkTail:
		return `tail`
	case linkFull:
		return `full`
	default:
		return fmt.Sprintf(`linkKind(%d)`, uint8(x))
	}
}

func (x *links[T]) isLinked() bool { return x.kind != linkUnlinked }

func (x *links[T]) isHead() bool { return x.kind == linkSingle || x.kind == linkHead }

func (x *links[T]) isTail() bool { return x.kind == linkSingle || x.kind == linkTail }

func (x *links[T]) getNext() *node[T] { return x.next }

func (x *links[T]) getPrev() *node[T] { return x.prev }

func (x *links[T]) setPrev(n *node[T]) {
	switch x.kind {
	case linkSingle:
		x.kind = linkTail
	case linkHead:
		x.kind = linkFull
	case linkTail, linkFull:
	default:
		panic(fmt.Sprintf(`intrusive: set prev of %s node`, x.kind))
	}
	x.prev = n
}

func (x *links[T]) setNext(n *node[T]) {
	switch x.kind {
	case linkSingle:
		x.kind = linkHead
	case linkTail:
		x.kind = linkFull
	case linkHead, linkFull:
	default:
		panic(fmt.Sprintf(`intrusive: set next of %s node`, x.kind))
	}
	x.next = n
}

func (x *links[T]) clearPrev() {
	switch x.kind {
	case linkTail:
		x.kind = linkSingle
	case linkFull:
		x.kind = linkHead
	default:
		panic(fmt.Sprintf(`intrusive: clear prev of %s node`, x.kind))
	}
	x.prev = nil
}

func (x *links[T]) clearNext() {
	switch x.kind {
	case linkHead:
		x.kind = linkSingle
	case linkFull:
		x.kind = linkTail
	default:
		panic(fmt.Sprintf(`intrusive: clear next of %s node`, x.kind))
	}
	x.next = nil
}

// clear resets to unlinked, returning the previous value.
func (x *links[T]) clear() (old links[T]) {
	old, *x = *x, links[T]{}
	return old
}

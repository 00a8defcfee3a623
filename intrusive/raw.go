package intrusive

import (
	"github.com/joeycumines/go-coopsync/internal/checks"
)

type (
	// rawList holds the list bookkeeping. It owns no nodes. All methods
	// require the caller to hold the list lock, evidenced by a listLock.
	rawList[T any] struct {
		head *node[T]
		tail *node[T]
		len  int
	}

	// listLock is minted while holding the lock of a specific list. With
	// checks enabled, it records that list, and is validated by every
	// operation.
	listLock[T any] struct {
		list *rawList[T]
	}
)

// mint must only be called while holding the list lock.
func (l *rawList[T]) mint() (lock listLock[T]) {
	if checks.Enabled {
		lock.list = l
	}
	return
}

func (l *rawList[T]) validate(lock listLock[T]) {
	if checks.Enabled && lock.list != l {
		panic(`intrusive: list lock does not belong to this list`)
	}
}

func (l *rawList[T]) insertHead(lock listLock[T], n *node[T]) {
	l.validate(lock)
	if n.links.isLinked() {
		panic(`intrusive: node already linked`)
	}
	if old := l.head; old != nil {
		n.links = links[T]{kind: linkHead, next: old}
		old.links.setPrev(n)
	} else {
		n.links = links[T]{kind: linkSingle}
		l.tail = n
	}
	l.head = n
	l.len++
	n.linked.Store(true)
}

func (l *rawList[T]) insertTail(lock listLock[T], n *node[T]) {
	l.validate(lock)
	if n.links.isLinked() {
		panic(`intrusive: node already linked`)
	}
	if old := l.tail; old != nil {
		n.links = links[T]{kind: linkTail, prev: old}
		old.links.setNext(n)
	} else {
		n.links = links[T]{kind: linkSingle}
		l.head = n
	}
	l.tail = n
	l.len++
	n.linked.Store(true)
}

// insertBefore links n immediately before at, which must be linked.
func (l *rawList[T]) insertBefore(lock listLock[T], at, n *node[T]) {
	if !at.links.isLinked() {
		panic(`intrusive: insert before unlinked node`)
	}
	prev := at.links.getPrev()
	if prev == nil {
		l.insertHead(lock, n)
		return
	}
	l.validate(lock)
	if n.links.isLinked() {
		panic(`intrusive: node already linked`)
	}
	n.links = links[T]{kind: linkFull, prev: prev, next: at}
	prev.links.setNext(n)
	at.links.setPrev(n)
	l.len++
	n.linked.Store(true)
}

// insertAfter links n immediately after at, which must be linked.
func (l *rawList[T]) insertAfter(lock listLock[T], at, n *node[T]) {
	if !at.links.isLinked() {
		panic(`intrusive: insert after unlinked node`)
	}
	next := at.links.getNext()
	if next == nil {
		l.insertTail(lock, n)
		return
	}
	l.validate(lock)
	if n.links.isLinked() {
		panic(`intrusive: node already linked`)
	}
	n.links = links[T]{kind: linkFull, prev: at, next: next}
	at.links.setNext(n)
	next.links.setPrev(n)
	l.len++
	n.linked.Store(true)
}

// remove unlinks n, stitching its neighbors together, returning false if n
// was already unlinked.
func (l *rawList[T]) remove(lock listLock[T], n *node[T]) bool {
	l.validate(lock)
	old := n.links.clear()
	switch old.kind {
	case linkUnlinked:
		return false
	case linkSingle:
		l.head, l.tail = nil, nil
	case linkHead:
		old.next.links.clearPrev()
		l.head = old.next
	case linkTail:
		old.prev.links.clearNext()
		l.tail = old.prev
	case linkFull:
		old.next.links.setPrev(old.prev)
		old.prev.links.setNext(old.next)
	}
	l.len--
	n.linked.Store(false)
	return true
}

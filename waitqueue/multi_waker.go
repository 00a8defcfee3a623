package waitqueue

import (
	"github.com/joeycumines/go-coopsync/intrusive"
	"github.com/joeycumines/go-coopsync/rawmutex"
)

type (
	// MultiWakerRegistrar is a set of wakers, each registered by a waiting
	// task, all of which are woken, and deregistered, by [MultiWakerRegistrar.Wake].
	// Waiters must re-register each time they wait.
	//
	// The zero value is ready to use, guarded by a [rawmutex.Std].
	MultiWakerRegistrar struct {
		wakers intrusive.List[Waker]
	}

	// Registration is a task's slot within a [MultiWakerRegistrar]. It must
	// be closed once the task stops waiting, typically via defer.
	Registration struct {
		item *intrusive.Item[Waker]
	}
)

// NewMultiWakerRegistrar returns an empty registrar guarded by mu. A nil mu
// is equivalent to the zero value.
func NewMultiWakerRegistrar(mu rawmutex.Mutex) *MultiWakerRegistrar {
	return new(MultiWakerRegistrar).Init(mu)
}

// Init sets the mutex guarding x, which must not yet be in use, returning x.
func (x *MultiWakerRegistrar) Init(mu rawmutex.Mutex) *MultiWakerRegistrar {
	x.wakers.Init(mu)
	return x
}

// Store returns a new, unregistered slot.
func (x *MultiWakerRegistrar) Store() *Registration {
	return &Registration{item: x.wakers.NewStore(nil)}
}

// Update registers w using reg, which must have been created by this
// registrar. If reg is registered, its waker is replaced, unless it would
// already wake the same task. If reg is not registered, and some other
// registration would already wake the same task, nothing happens.
func (x *MultiWakerRegistrar) Update(reg *Registration, w Waker) {
	if w == nil {
		panic(`waitqueue: nil waker`)
	}
	x.wakers.WithCursor(func(c *intrusive.Cursor[Waker]) {
		if reg.item.IsLinked() {
			if v := reg.item.Get(c); *v == nil || !(*v).WillWake(w) {
				*v = w
			}
			return
		}
		if c.Any(func(_ int, v *Waker) bool { return *v != nil && (*v).WillWake(w) }) {
			return
		}
		*c.InsertTail(reg.item) = w
	})
}

// Wake wakes every registered waker, deregistering all slots, returning the
// number woken.
func (x *MultiWakerRegistrar) Wake() (woken int) {
	x.wakers.WithCursor(func(c *intrusive.Cursor[Waker]) {
		c.Retain(func(_ int, v *Waker) bool {
			if *v != nil {
				(*v).Wake()
				*v = nil
				woken++
			}
			return false
		})
	})
	return
}

// Len returns the number of registered slots.
func (x *MultiWakerRegistrar) Len() int { return x.wakers.Len() }

// IsRegistered reports whether the slot is currently registered.
func (x *Registration) IsRegistered() bool { return x.item.IsLinked() }

// Close deregisters the slot. It is safe to call multiple times, and always
// returns nil.
func (x *Registration) Close() error { return x.item.Close() }

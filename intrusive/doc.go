// Package intrusive implements a lock-guarded, doubly-linked list, whose
// elements live in caller-owned [Item] values, rather than being allocated
// by the list.
//
// All access to the list structure happens through a [Cursor], which is
// only available while the list's [rawmutex.Mutex] is held. An Item is a
// registration guard: it is linked and unlinked explicitly, and the owner
// is responsible for unlinking it before discarding it, most simply via
// [List.Store], or by deferring [Item.Close].
//
// Misuse (e.g. linking an item twice, presenting a cursor from a different
// list, or using a cursor after its lock scope) panics. Some of these
// checks may be compiled out using the coopsync_nochecks build tag.
package intrusive

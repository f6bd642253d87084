package media

import "sync/atomic"

// RefCounted is implemented by shared objects whose backing resource is
// reclaimed by manual reference counting. A video buffer is typically
// shared between several consumers (preview, encoder, recorder), and the
// backing store has to go back to its owner as soon as the last consumer
// is done with it.
type RefCounted interface {
	// Retain increments the reference count. It may be called from any
	// goroutine, but never after the count has already reached zero.
	Retain()

	// Release decrements the reference count. When the count reaches
	// zero the backing resource is reclaimed, exactly once, on the
	// goroutine that performed the final Release.
	Release()
}

// RefCounter is an embeddable reference count with a reclaim hook.
//
// The count starts at 1: the creator holds the first reference. Retain
// and Release are safe to call concurrently without external locking.
// Releasing more times than the object was retained (plus the implicit
// initial reference) is a programming error and panics rather than
// silently corrupting the count, since masking it leads straight to
// use-after-free.
type RefCounter struct {
	refs    atomic.Int32
	reclaim func()
}

// NewRefCounter returns a counter initialized to one reference. reclaim
// runs exactly once, when the count reaches zero; it may be nil when the
// garbage collector is enough (plain Go memory with no external resource
// attached).
func NewRefCounter(reclaim func()) *RefCounter {
	c := &RefCounter{reclaim: reclaim}
	c.refs.Store(1)
	return c
}

// Retain increments the reference count.
func (c *RefCounter) Retain() {
	for {
		n := c.refs.Load()
		if n <= 0 {
			panic("media: Retain called on released object")
		}
		if c.refs.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// Release decrements the reference count, reclaiming the resource when
// it reaches zero.
func (c *RefCounter) Release() {
	n := c.refs.Add(-1)
	if n < 0 {
		panic("media: Release called on object with no references")
	}
	if n == 0 && c.reclaim != nil {
		c.reclaim()
	}
}

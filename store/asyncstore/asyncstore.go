// Package asyncstore demonstrates the completion-passing store shape
// spec §5 describes as the reason every Store operation is phrased as
// "takes effect, then a completion fires": it wraps any synchronous
// cookiejar.Store and runs its operations on a background worker
// goroutine, delivering results through a callback instead of a return
// value.
//
// A Jar never talks to this package directly — the synchronous facade in
// jar.go only accepts stores whose Synchronous() is true. AsyncStore
// exists for callers building their own asynchronous pipeline on top of a
// store this engine already knows how to drive (disk- or network-backed).
package asyncstore

import (
	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

type job func()

// ------------------------------------------------------------------------

// AsyncStore serializes every call to inner through a single worker
// goroutine, so inner never needs its own internal locking beyond what
// its synchronous contract already assumes.
type AsyncStore struct {
	inner cookiejar.Store
	jobs  chan job
	done  chan struct{}
}

// ------------------------------------------------------------------------

// Wrap starts a worker goroutine around inner and returns the wrapper.
// Close must be called to stop the worker once the caller is done.
func Wrap(inner cookiejar.Store) *AsyncStore {
	a := &AsyncStore{
		inner: inner,
		jobs:  make(chan job, 64),
		done:  make(chan struct{}),
	}

	go a.run()

	return a
}

// ------------------------------------------------------------------------

func (a *AsyncStore) run() {
	for j := range a.jobs {
		j()
	}
	close(a.done)
}

// ------------------------------------------------------------------------

// Close stops accepting new work and waits for the worker to drain.
func (a *AsyncStore) Close() {
	close(a.jobs)
	<-a.done
}

// ------------------------------------------------------------------------

// Synchronous is always false: callbacks fire from the worker goroutine,
// not before the call returns.
func (a *AsyncStore) Synchronous() bool { return false }

// ------------------------------------------------------------------------

// updateOrPut applies inner's Update if it implements cookiejar.Updater,
// otherwise falls back to Put(newCookie) — the same "update default" shim
// Jar itself uses when talking to a synchronous store directly.
func updateOrPut(inner cookiejar.Store, old, newCookie *cookiejar.Cookie) error {
	if u, ok := inner.(cookiejar.Updater); ok {
		return u.Update(old, newCookie)
	}

	return inner.Put(newCookie)
}

// ------------------------------------------------------------------------

func (a *AsyncStore) Find(domain, path, key string, done func(*cookiejar.Cookie, error)) {
	a.jobs <- func() {
		c, err := a.inner.Find(domain, path, key)
		done(c, err)
	}
}

// ------------------------------------------------------------------------

func (a *AsyncStore) FindCookies(host, path string, allPaths bool, done func([]*cookiejar.Cookie, error)) {
	a.jobs <- func() {
		cs, err := a.inner.FindCookies(host, path, allPaths)
		done(cs, err)
	}
}

// ------------------------------------------------------------------------

func (a *AsyncStore) Put(c *cookiejar.Cookie, done func(error)) {
	a.jobs <- func() {
		done(a.inner.Put(c))
	}
}

// ------------------------------------------------------------------------

func (a *AsyncStore) Update(old, newCookie *cookiejar.Cookie, done func(error)) {
	a.jobs <- func() {
		done(updateOrPut(a.inner, old, newCookie))
	}
}

// ------------------------------------------------------------------------

func (a *AsyncStore) Remove(domain, path, key string, done func(error)) {
	a.jobs <- func() {
		done(a.inner.Remove(domain, path, key))
	}
}

// ------------------------------------------------------------------------

func (a *AsyncStore) RemoveAll(done func(error)) {
	a.jobs <- func() {
		done(a.inner.RemoveAll())
	}
}

// ------------------------------------------------------------------------

// GetAll reports ok == false if the wrapped store has no Enumerator
// capability.
func (a *AsyncStore) GetAll(done func(cookies []*cookiejar.Cookie, ok bool, err error)) {
	a.jobs <- func() {
		e, ok := a.inner.(cookiejar.Enumerator)
		if !ok {
			done(nil, false, nil)

			return
		}

		cookies, err := e.GetAll()
		done(cookies, true, err)
	}
}

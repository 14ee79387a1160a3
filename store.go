package cookiejar

import (
	"bytes"
	"encoding/gob"
	"errors"
)

// ------------------------------------------------------------------------

// Errors a concrete Store may return. StoreError in the error-handling
// design propagates these verbatim through the jar.
var (
	ErrStoreNotFound  = errors.New("cookiejar: cookie not found")
	ErrStoreClosed    = errors.New("cookiejar: store closed")
	ErrBlankPath      = errors.New("cookiejar: no storage path was given")
	ErrBlankKey       = errors.New("cookiejar: no key was given")
	ErrInvalidDBConn  = errors.New("cookiejar: invalid database connection")
)

// ------------------------------------------------------------------------

// Store is the keyed bag of cookies a Jar reads from and writes to. Every
// method may be backed by disk or network I/O; Synchronous reports
// whether a call's effects are visible to the very next call on the same
// store (the in-memory implementation always is). See spec component
// 4.E.
type Store interface {
	// Find returns the cookie stored at the identity triple, or
	// (nil, nil) if absent.
	Find(domain, path, key string) (*Cookie, error)

	// FindCookies returns every cookie that could possibly apply to
	// host and path. It must include cookies for every domain in
	// PermuteDomain(host) and, unless allPaths is set, at least every
	// cookie whose stored path is in PermutePath(path). It may return
	// more: filtering by exact domain/path/secure/httpOnly/expiry is
	// the jar's job.
	FindCookies(host, path string, allPaths bool) ([]*Cookie, error)

	// Put stores a cookie under a fresh identity triple. Overwriting an
	// existing triple is a caller error; callers that mean to replace
	// must go through Updater.
	Put(c *Cookie) error

	// Remove deletes the cookie at the identity triple, if present.
	Remove(domain, path, key string) error

	// RemoveAll drops every stored cookie.
	RemoveAll() error

	// Synchronous reports whether every method call above takes effect
	// before it returns.
	Synchronous() bool
}

// ------------------------------------------------------------------------

// Updater is an optional Store capability: atomic replace-in-place of a
// cookie at an unchanged identity triple. A store that doesn't implement
// it gets the Put-based shim below instead (spec §9 "update default").
type Updater interface {
	Update(old, new *Cookie) error
}

// ------------------------------------------------------------------------

// Enumerator is an optional Store capability: full enumeration, used by
// Jar.Serialize. A store that doesn't implement it makes serialization
// fail with ErrSerialization rather than silently returning nothing.
type Enumerator interface {
	GetAll() ([]*Cookie, error)
}

// ------------------------------------------------------------------------

// updateStore applies s's Update if it implements Updater, otherwise
// falls back to s.Put(newCookie) — the jar's "update default" shim from
// spec §9, factored out here so every Store implementation shares it.
func updateStore(s Store, old, newCookie *Cookie) error {
	if u, ok := s.(Updater); ok {
		return u.Update(old, newCookie)
	}

	return s.Put(newCookie)
}

// ------------------------------------------------------------------------

// getAllFromStore enumerates s if it implements Enumerator, otherwise
// reports ok == false.
func getAllFromStore(s Store) (cookies []*Cookie, ok bool, err error) {
	e, isEnumerator := s.(Enumerator)
	if !isEnumerator {
		return nil, false, nil
	}

	cookies, err = e.GetAll()

	return cookies, true, err
}

// ------------------------------------------------------------------------

// EncodeSubmap gob-encodes a domain's path->key->Cookie submap, the unit
// of storage the disk-backed implementations (store/badger, store/sqlite3)
// persist per host.
func EncodeSubmap(m map[string]map[string]*Cookie) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ------------------------------------------------------------------------

// DecodeSubmap is the inverse of EncodeSubmap. Empty input decodes to an
// empty, non-nil map.
func DecodeSubmap(data []byte) (map[string]map[string]*Cookie, error) {
	m := map[string]map[string]*Cookie{}
	if len(data) == 0 {
		return m, nil
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, err
	}

	return m, nil
}

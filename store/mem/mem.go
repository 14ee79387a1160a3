// Package mem is the in-memory Store implementation: a three-level index
// domain -> path -> key -> Cookie, giving O(1) identity lookup and
// permutation-assisted FindCookies. It is always Synchronous.
package mem

import (
	"sync"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

// Store is the in-memory cookie Store from spec §4.E.
type Store struct {
	mu  sync.Mutex
	idx map[string]map[string]map[string]*cookiejar.Cookie // domain -> path -> key
}

// ------------------------------------------------------------------------

// New returns an empty in-memory Store.
func New() *Store {
	return &Store{idx: map[string]map[string]map[string]*cookiejar.Cookie{}}
}

// ------------------------------------------------------------------------

// Synchronous always reports true: every write below is visible to the
// very next call.
func (s *Store) Synchronous() bool { return true }

// ------------------------------------------------------------------------

func (s *Store) Find(domain, path, key string) (*cookiejar.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPath, ok := s.idx[domain]
	if !ok {
		return nil, nil
	}
	byKey, ok := byPath[path]
	if !ok {
		return nil, nil
	}

	return byKey[key], nil
}

// ------------------------------------------------------------------------

// FindCookies gathers every cookie indexed under a domain in
// cookiejar.PermuteDomain(host) and, unless allPaths, under a path in
// cookiejar.PermutePath(path).
func (s *Store) FindCookies(host, path string, allPaths bool) ([]*cookiejar.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*cookiejar.Cookie

	for _, domain := range cookiejar.PermuteDomain(host) {
		byPath, ok := s.idx[domain]
		if !ok {
			continue
		}

		if allPaths {
			for _, byKey := range byPath {
				for _, c := range byKey {
					out = append(out, c)
				}
			}

			continue
		}

		for _, p := range cookiejar.PermutePath(path) {
			for _, c := range byPath[p] {
				out = append(out, c)
			}
		}
	}

	return out, nil
}

// ------------------------------------------------------------------------

func (s *Store) Put(c *cookiejar.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(c)

	return nil
}

// ------------------------------------------------------------------------

func (s *Store) put(c *cookiejar.Cookie) {
	byPath, ok := s.idx[c.Domain]
	if !ok {
		byPath = map[string]map[string]*cookiejar.Cookie{}
		s.idx[c.Domain] = byPath
	}

	byKey, ok := byPath[c.Path]
	if !ok {
		byKey = map[string]*cookiejar.Cookie{}
		byPath[c.Path] = byKey
	}

	byKey[c.Key] = c
}

// ------------------------------------------------------------------------

// Update replaces old with newCookie in place, satisfying cookiejar.Updater.
func (s *Store) Update(old, newCookie *cookiejar.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(newCookie)

	return nil
}

// ------------------------------------------------------------------------

func (s *Store) Remove(domain, path, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPath, ok := s.idx[domain]
	if !ok {
		return nil
	}
	byKey, ok := byPath[path]
	if !ok {
		return nil
	}

	delete(byKey, key)
	if len(byKey) == 0 {
		delete(byPath, path)
	}
	if len(byPath) == 0 {
		delete(s.idx, domain)
	}

	return nil
}

// ------------------------------------------------------------------------

func (s *Store) RemoveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idx = map[string]map[string]map[string]*cookiejar.Cookie{}

	return nil
}

// ------------------------------------------------------------------------

// GetAll enumerates every stored cookie, satisfying cookiejar.Enumerator
// so Jar.Serialize works against this store.
func (s *Store) GetAll() ([]*cookiejar.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*cookiejar.Cookie

	for _, byPath := range s.idx {
		for _, byKey := range byPath {
			for _, c := range byKey {
				out = append(out, c)
			}
		}
	}

	return out, nil
}

// ------------------------------------------------------------------------

var (
	_ cookiejar.Store      = (*Store)(nil)
	_ cookiejar.Updater    = (*Store)(nil)
	_ cookiejar.Enumerator = (*Store)(nil)
)

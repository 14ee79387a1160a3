// Package badger is a BadgerDB-backed cookiejar.Store: every domain's
// path->key submap is gob-encoded (via cookiejar.EncodeSubmap) and kept
// under one key per domain, so FindCookies still only needs to open the
// domains named by cookiejar.PermuteDomain(host).
//
// Connections are pooled: a path-keyed map of reference-counted handles,
// guarded by a package-level mutex, so several Stores opened on the same
// path share one database handle.
package badger

import (
	"sync"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

type dbconn struct {
	path     string
	dbh      *badgerdb.DB
	useCount uint16
}

var (
	connections = map[string]*dbconn{}
	connLock    sync.Mutex
)

// ------------------------------------------------------------------------

func connect(path string) (*dbconn, error) {
	if path == "" {
		return nil, cookiejar.ErrBlankPath
	}

	connLock.Lock()
	defer connLock.Unlock()

	conn, present := connections[path]
	if !present {
		dbh, err := badgerdb.Open(badgerdb.DefaultOptions(path))
		if err != nil {
			return nil, err
		}

		conn = &dbconn{path: path, dbh: dbh}
		connections[path] = conn
	}
	conn.useCount++

	return conn, nil
}

// ------------------------------------------------------------------------

func (c *dbconn) disconnect() {
	connLock.Lock()
	defer connLock.Unlock()

	c.useCount--
	if c.useCount <= 0 {
		c.dbh.Close()
		delete(connections, c.path)
	}
}

// ------------------------------------------------------------------------

var submapPrefix = []byte("cookiejar:submap:")

// ------------------------------------------------------------------------

// Store is a BadgerDB-backed Store. The identity triple (domain, path,
// key) maps onto one submapPrefix+domain record holding a gob-encoded
// path->key->Cookie map, read-modify-written on every mutation.
type Store struct {
	db *dbconn
}

// ------------------------------------------------------------------------

// New opens (or attaches to an already-open) BadgerDB database at path.
func New(path string) (*Store, error) {
	db, err := connect(path)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// ------------------------------------------------------------------------

// Close detaches from the database, closing it once every Store using
// the same path has closed.
func (s *Store) Close() error {
	s.db.disconnect()
	s.db = nil

	return nil
}

// ------------------------------------------------------------------------

func (s *Store) Synchronous() bool { return true }

// ------------------------------------------------------------------------

func domainKey(domain string) []byte {
	return append(append([]byte{}, submapPrefix...), domain...)
}

// ------------------------------------------------------------------------

func (s *Store) loadSubmap(domain string) (map[string]map[string]*cookiejar.Cookie, error) {
	var data []byte

	err := s.db.dbh.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(domainKey(domain))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	})
	if err != nil {
		return nil, err
	}

	return cookiejar.DecodeSubmap(data)
}

// ------------------------------------------------------------------------

func (s *Store) storeSubmap(domain string, m map[string]map[string]*cookiejar.Cookie) error {
	data, err := cookiejar.EncodeSubmap(m)
	if err != nil {
		return err
	}

	return s.db.dbh.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(domainKey(domain), data)
	})
}

// ------------------------------------------------------------------------

func (s *Store) Find(domain, path, key string) (*cookiejar.Cookie, error) {
	m, err := s.loadSubmap(domain)
	if err != nil {
		return nil, err
	}

	return m[path][key], nil
}

// ------------------------------------------------------------------------

func (s *Store) FindCookies(host, path string, allPaths bool) ([]*cookiejar.Cookie, error) {
	var out []*cookiejar.Cookie

	for _, domain := range cookiejar.PermuteDomain(host) {
		m, err := s.loadSubmap(domain)
		if err != nil {
			return nil, err
		}

		if allPaths {
			for _, byKey := range m {
				for _, c := range byKey {
					out = append(out, c)
				}
			}

			continue
		}

		for _, p := range cookiejar.PermutePath(path) {
			for _, c := range m[p] {
				out = append(out, c)
			}
		}
	}

	return out, nil
}

// ------------------------------------------------------------------------

func (s *Store) Put(c *cookiejar.Cookie) error {
	m, err := s.loadSubmap(c.Domain)
	if err != nil {
		return err
	}

	byKey, ok := m[c.Path]
	if !ok {
		byKey = map[string]*cookiejar.Cookie{}
		m[c.Path] = byKey
	}
	byKey[c.Key] = c

	return s.storeSubmap(c.Domain, m)
}

// ------------------------------------------------------------------------

// Update satisfies cookiejar.Updater with the same read-modify-write Put
// performs; Badger has no cheaper in-place replace for a gob submap.
func (s *Store) Update(old, newCookie *cookiejar.Cookie) error {
	return s.Put(newCookie)
}

// ------------------------------------------------------------------------

func (s *Store) Remove(domain, path, key string) error {
	m, err := s.loadSubmap(domain)
	if err != nil {
		return err
	}

	byKey, ok := m[path]
	if !ok {
		return nil
	}

	delete(byKey, key)
	if len(byKey) == 0 {
		delete(m, path)
	}

	return s.storeSubmap(domain, m)
}

// ------------------------------------------------------------------------

// RemoveAll drops every cookiejar submap key from the database.
func (s *Store) RemoveAll() error {
	return s.db.dbh.DropPrefix(submapPrefix)
}

// ------------------------------------------------------------------------

// GetAll enumerates every submap in the database, satisfying
// cookiejar.Enumerator.
func (s *Store) GetAll() ([]*cookiejar.Cookie, error) {
	var out []*cookiejar.Cookie

	err := s.db.dbh.View(func(txn *badgerdb.Txn) error {
		opt := badgerdb.DefaultIteratorOptions
		it := txn.NewIterator(opt)
		defer it.Close()

		for it.Seek(submapPrefix); it.ValidForPrefix(submapPrefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			m, err := cookiejar.DecodeSubmap(data)
			if err != nil {
				return err
			}

			for _, byKey := range m {
				for _, c := range byKey {
					out = append(out, c)
				}
			}
		}

		return nil
	})

	return out, err
}

// ------------------------------------------------------------------------

var (
	_ cookiejar.Store      = (*Store)(nil)
	_ cookiejar.Updater    = (*Store)(nil)
	_ cookiejar.Enumerator = (*Store)(nil)
)

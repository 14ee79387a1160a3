// Package sqlite3 is a SQLite3-backed Store. Like the badger package, the
// identity triple (domain, path, key) is not itself a SQL row: each row
// holds one domain's gob-encoded path->key->Cookie submap, keyed by the
// domain, read-modify-written on every mutation through an
// INSERT ... ON CONFLICT DO UPDATE upsert. Connections are pooled per
// database path with a reference count, as in the badger package.
package sqlite3

import (
	"database/sql"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

type dbconn struct {
	path     string
	dbh      *sql.DB
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
		dbh, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, err
		}
		if err := dbh.Ping(); err != nil {
			dbh.Close()

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

const defaultTable = "cookie_jar"

// ------------------------------------------------------------------------

const placeholderTable = "<table>"

var commands = map[string]string{
	"create": `CREATE TABLE IF NOT EXISTS "<table>" ("domain" TEXT PRIMARY KEY, "cookies" BLOB) WITHOUT ROWID`,
	"trim":   `DELETE FROM "<table>"`,
	"upsert": `INSERT INTO "<table>" ("domain", "cookies") VALUES (?, ?) ON CONFLICT("domain") DO UPDATE SET "cookies" = "excluded"."cookies"`,
	"select": `SELECT "cookies" FROM "<table>" WHERE "domain" = ?`,
	"all":    `SELECT "cookies" FROM "<table>"`,
}

// ------------------------------------------------------------------------

func setTable(table string) string {
	table = strings.TrimSpace(table)
	if table == "" {
		table = defaultTable
	}

	return strings.ReplaceAll(table, " ", "_")
}

// ------------------------------------------------------------------------

// Store is a SQLite3-backed Store.
type Store struct {
	db    *dbconn
	table string
	stmts map[string]*sql.Stmt
	lock  sync.Mutex
}

// ------------------------------------------------------------------------

// New opens (or attaches to an already-open) SQLite3 database at path,
// using table (defaulting to "cookie_jar") to hold the cookie submaps.
func New(path, table string) (*Store, error) {
	db, err := connect(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, table: setTable(table), stmts: map[string]*sql.Stmt{}}

	for name, cmd := range commands {
		stmt, err := db.dbh.Prepare(strings.ReplaceAll(cmd, placeholderTable, s.table))
		if err != nil {
			s.db.disconnect()

			return nil, err
		}
		s.stmts[name] = stmt
	}

	if _, err := s.stmts["create"].Exec(); err != nil {
		s.db.disconnect()

		return nil, err
	}

	return s, nil
}

// ------------------------------------------------------------------------

// Close releases the prepared statements and detaches from the database.
func (s *Store) Close() error {
	for _, stmt := range s.stmts {
		stmt.Close()
	}
	s.db.disconnect()
	s.db = nil

	return nil
}

// ------------------------------------------------------------------------

func (s *Store) Synchronous() bool { return true }

// ------------------------------------------------------------------------

func (s *Store) loadSubmap(domain string) (map[string]map[string]*cookiejar.Cookie, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var data []byte

	err := s.stmts["select"].QueryRow(domain).Scan(&data)
	if err == sql.ErrNoRows {
		return map[string]map[string]*cookiejar.Cookie{}, nil
	}
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

	s.lock.Lock()
	defer s.lock.Unlock()

	_, err = s.stmts["upsert"].Exec(domain, data)

	return err
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

// Update satisfies cookiejar.Updater via the same read-modify-write Put
// performs.
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

func (s *Store) RemoveAll() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.stmts["trim"].Exec()

	return err
}

// ------------------------------------------------------------------------

// GetAll enumerates every submap row, satisfying cookiejar.Enumerator.
func (s *Store) GetAll() ([]*cookiejar.Cookie, error) {
	s.lock.Lock()
	rows, err := s.stmts["all"].Query()
	s.lock.Unlock()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*cookiejar.Cookie

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		m, err := cookiejar.DecodeSubmap(data)
		if err != nil {
			return nil, err
		}

		for _, byKey := range m {
			for _, c := range byKey {
				out = append(out, c)
			}
		}
	}

	return out, rows.Err()
}

// ------------------------------------------------------------------------

var (
	_ cookiejar.Store      = (*Store)(nil)
	_ cookiejar.Updater    = (*Store)(nil)
	_ cookiejar.Enumerator = (*Store)(nil)
)

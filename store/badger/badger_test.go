package badger

import (
	"path/filepath"
	"testing"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

func TestStorePutFindRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cookies")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	c := &cookiejar.Cookie{Key: "sid", Value: "1", Domain: "example.com", Path: "/"}
	if err := s.Put(c); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Find("example.com", "/", "sid")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got == nil || got.Value != "1" {
		t.Fatalf("Find() = %v, want value 1", got)
	}

	if err := s.Remove("example.com", "/", "sid"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	got, err = s.Find("example.com", "/", "sid")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != nil {
		t.Errorf("Find() after Remove = %v, want nil", got)
	}
}

// ------------------------------------------------------------------------

func TestStoreGetAllAndRemoveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cookies")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	for _, key := range []string{"a", "b"} {
		if err := s.Put(&cookiejar.Cookie{Key: key, Value: "1", Domain: "example.com", Path: "/"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d cookies, want 2", len(all))
	}

	if err := s.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	all, err = s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll() after RemoveAll = %v, want none", all)
	}
}

// ------------------------------------------------------------------------

func TestNewRejectsBlankPath(t *testing.T) {
	if _, err := New(""); err != cookiejar.ErrBlankPath {
		t.Errorf("New(\"\") error = %v, want ErrBlankPath", err)
	}
}

package mem

import (
	"testing"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

func TestStoreFindAndPut(t *testing.T) {
	s := New()

	c := &cookiejar.Cookie{Key: "a", Value: "1", Domain: "example.com", Path: "/"}
	if err := s.Put(c); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Find("example.com", "/", "a")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != c {
		t.Errorf("Find() = %v, want %v", got, c)
	}

	miss, err := s.Find("example.com", "/", "missing")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if miss != nil {
		t.Errorf("Find() for missing key = %v, want nil", miss)
	}
}

// ------------------------------------------------------------------------

func TestStoreUpdate(t *testing.T) {
	s := New()

	old := &cookiejar.Cookie{Key: "a", Value: "1", Domain: "example.com", Path: "/"}
	if err := s.Put(old); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	newCookie := &cookiejar.Cookie{Key: "a", Value: "2", Domain: "example.com", Path: "/"}
	if err := s.Update(old, newCookie); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Find("example.com", "/", "a")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Value != "2" {
		t.Errorf("Find() after Update = %q, want %q", got.Value, "2")
	}
}

// ------------------------------------------------------------------------

func TestStoreFindCookiesPermutesDomainAndPath(t *testing.T) {
	s := New()

	parent := &cookiejar.Cookie{Key: "p", Value: "1", Domain: "example.com", Path: "/a"}
	if err := s.Put(parent); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.FindCookies("www.example.com", "/a/b", false)
	if err != nil {
		t.Fatalf("FindCookies() error = %v", err)
	}
	if len(got) != 1 || got[0].Key != "p" {
		t.Errorf("FindCookies() = %v, want one cookie named p", got)
	}

	none, err := s.FindCookies("www.example.com", "/other", false)
	if err != nil {
		t.Fatalf("FindCookies() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("FindCookies() for unrelated path = %v, want none", none)
	}
}

// ------------------------------------------------------------------------

func TestStoreRemove(t *testing.T) {
	s := New()

	c := &cookiejar.Cookie{Key: "a", Value: "1", Domain: "example.com", Path: "/"}
	if err := s.Put(c); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Remove("example.com", "/", "a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	got, err := s.Find("example.com", "/", "a")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != nil {
		t.Errorf("Find() after Remove = %v, want nil", got)
	}
}

// ------------------------------------------------------------------------

func TestStoreRemoveAll(t *testing.T) {
	s := New()

	for _, key := range []string{"a", "b", "c"} {
		if err := s.Put(&cookiejar.Cookie{Key: key, Value: "1", Domain: "example.com", Path: "/"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	if err := s.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll() after RemoveAll = %v, want none", all)
	}
}

// ------------------------------------------------------------------------

func TestStoreGetAll(t *testing.T) {
	s := New()

	want := map[string]bool{"a": true, "b": true}
	for key := range want {
		if err := s.Put(&cookiejar.Cookie{Key: key, Value: "1", Domain: "example.com", Path: "/"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != len(want) {
		t.Fatalf("GetAll() returned %d cookies, want %d", len(all), len(want))
	}
	for _, c := range all {
		if !want[c.Key] {
			t.Errorf("GetAll() returned unexpected key %q", c.Key)
		}
	}
}

// ------------------------------------------------------------------------

func TestStoreSynchronous(t *testing.T) {
	if !New().Synchronous() {
		t.Errorf("Synchronous() = false, want true")
	}
}

package sqlite3

import (
	"path/filepath"
	"testing"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

func TestStorePutFindRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.db")

	s, err := New(path, "cookies")
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

func TestStoreUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.db")

	s, err := New(path, "cookies")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	old := &cookiejar.Cookie{Key: "sid", Value: "1", Domain: "example.com", Path: "/"}
	if err := s.Put(old); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	newCookie := &cookiejar.Cookie{Key: "sid", Value: "2", Domain: "example.com", Path: "/"}
	if err := s.Update(old, newCookie); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Find("example.com", "/", "sid")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Value != "2" {
		t.Errorf("Find() after Update = %q, want %q", got.Value, "2")
	}
}

// ------------------------------------------------------------------------

func TestTableNameDefaultsAndSanitizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: defaultTable},
		{in: "my table", want: "my_table"},
		{in: "custom", want: "custom"},
	}
	for _, tt := range tests {
		if got := setTable(tt.in); got != tt.want {
			t.Errorf("setTable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ------------------------------------------------------------------------

func TestNewRejectsBlankPath(t *testing.T) {
	if _, err := New("", "cookies"); err != cookiejar.ErrBlankPath {
		t.Errorf("New(\"\", ...) error = %v, want ErrBlankPath", err)
	}
}

package asyncstore

import (
	"testing"
	"time"

	"github.com/jkfb/tough-cookie"
	"github.com/jkfb/tough-cookie/store/mem"
)

// ------------------------------------------------------------------------

func TestAsyncStoreSynchronous(t *testing.T) {
	a := Wrap(mem.New())
	defer a.Close()

	if a.Synchronous() {
		t.Errorf("Synchronous() = true, want false")
	}
}

// ------------------------------------------------------------------------

func TestAsyncStorePutThenFind(t *testing.T) {
	a := Wrap(mem.New())
	defer a.Close()

	c := &cookiejar.Cookie{Key: "sid", Value: "1", Domain: "example.com", Path: "/"}

	putDone := make(chan error, 1)
	a.Put(c, func(err error) { putDone <- err })

	select {
	case err := <-putDone:
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Put callback")
	}

	findDone := make(chan *cookiejar.Cookie, 1)
	a.Find("example.com", "/", "sid", func(got *cookiejar.Cookie, err error) {
		if err != nil {
			t.Errorf("Find() error = %v", err)
		}
		findDone <- got
	})

	select {
	case got := <-findDone:
		if got == nil || got.Value != "1" {
			t.Errorf("Find() = %v, want value 1", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Find callback")
	}
}

// ------------------------------------------------------------------------

func TestAsyncStoreRemove(t *testing.T) {
	a := Wrap(mem.New())
	defer a.Close()

	c := &cookiejar.Cookie{Key: "sid", Value: "1", Domain: "example.com", Path: "/"}

	done := make(chan struct{})
	a.Put(c, func(error) {
		a.Remove("example.com", "/", "sid", func(error) {
			close(done)
		})
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Remove callback")
	}

	findDone := make(chan *cookiejar.Cookie, 1)
	a.Find("example.com", "/", "sid", func(got *cookiejar.Cookie, err error) { findDone <- got })

	select {
	case got := <-findDone:
		if got != nil {
			t.Errorf("Find() after Remove = %v, want nil", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Find callback")
	}
}

// ------------------------------------------------------------------------

func TestAsyncStoreGetAllRequiresEnumerator(t *testing.T) {
	a := Wrap(mem.New())
	defer a.Close()

	done := make(chan bool, 1)
	a.GetAll(func(cookies []*cookiejar.Cookie, ok bool, err error) {
		done <- ok
	})

	select {
	case ok := <-done:
		if !ok {
			t.Errorf("GetAll() ok = false, want true (mem.Store implements Enumerator)")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for GetAll callback")
	}
}

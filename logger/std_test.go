package logger

import (
	"bytes"
	"strings"
	"testing"
)

// ------------------------------------------------------------------------

func TestStdLoggerLog(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewStdLogger(buf, "", 0)

	l.Log(INFO_LEVEL, NewEvent("set", "example.com", map[string]string{"key": "sid"}))

	out := buf.String()
	if !strings.Contains(out, "INFO") {
		t.Errorf("log output = %q, want it to contain level name INFO", out)
	}
	if !strings.Contains(out, "set") {
		t.Errorf("log output = %q, want it to contain op name set", out)
	}
	if !strings.Contains(out, "example.com") {
		t.Errorf("log output = %q, want it to contain host example.com", out)
	}
}

// ------------------------------------------------------------------------

func TestStdLoggerDefaultsToStderr(t *testing.T) {
	l := NewStdLogger(nil, "", 0)
	if l == nil {
		t.Fatalf("NewStdLogger(nil, ...) returned nil")
	}
}

// ------------------------------------------------------------------------

func TestNewEvent(t *testing.T) {
	e := NewEvent("get", "example.com", map[string]string{"count": "1"})

	if e.Op != "get" || e.Host != "example.com" || e.Values["count"] != "1" {
		t.Errorf("NewEvent() = %+v, unexpected fields", e)
	}
}

package urlinput

import "testing"

// ------------------------------------------------------------------------

func TestWHATWGParserParsesBasicURL(t *testing.T) {
	p := NewWHATWGParser()

	u, err := p.Parse("https://example.com/foo")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if u.Hostname() != "example.com" {
		t.Errorf("Hostname() = %q, want %q", u.Hostname(), "example.com")
	}
	if u.Scheme() != "https" {
		t.Errorf("Scheme() = %q, want %q", u.Scheme(), "https")
	}
}

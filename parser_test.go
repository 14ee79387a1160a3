package cookiejar

import (
	"reflect"
	"testing"
)

// ------------------------------------------------------------------------

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		loose   bool
		wantOK  bool
		wantKey string
		wantVal string
	}{
		{name: "simple pair", in: "a=b", wantOK: true, wantKey: "a", wantVal: "b"},
		{name: "value with equals sign", in: "a=b=c", wantOK: true, wantKey: "a", wantVal: "b=c"},
		{name: "whitespace trimmed", in: "  a = b  ", wantOK: true, wantKey: "a", wantVal: "b"},
		{name: "no equals sign, strict", in: "novalue", wantOK: false},
		{name: "empty key, strict", in: "=b", wantOK: false},
		{name: "empty key, loose", in: "=b", loose: true, wantOK: true, wantKey: "", wantVal: "b"},
		{name: "control byte in value rejected", in: "a=b\x01c", wantOK: false},
		{name: "empty input", in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Parse(tt.in, ParseOptions{Loose: tt.loose})
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if c.Key != tt.wantKey || c.Value != tt.wantVal {
				t.Errorf("Parse(%q) = {%q, %q}, want {%q, %q}", tt.in, c.Key, c.Value, tt.wantKey, tt.wantVal)
			}
		})
	}
}

// ------------------------------------------------------------------------

func TestParseAttributes(t *testing.T) {
	c, ok := Parse("sid=abc; Domain=.Example.com; Path=/app; Secure; HttpOnly; Max-Age=3600", ParseOptions{})
	if !ok {
		t.Fatalf("Parse() failed unexpectedly")
	}

	if c.Domain != "example.com" {
		t.Errorf("Domain = %q, want %q", c.Domain, "example.com")
	}
	if c.Path != "/app" {
		t.Errorf("Path = %q, want %q", c.Path, "/app")
	}
	if !c.Secure {
		t.Errorf("Secure = false, want true")
	}
	if !c.HttpOnly {
		t.Errorf("HttpOnly = false, want true")
	}
	if !c.MaxAge.IsSet() || c.MaxAge.Seconds() != 3600 {
		t.Errorf("MaxAge = %+v, want 3600 seconds", c.MaxAge)
	}
}

// ------------------------------------------------------------------------

func TestParseExpires(t *testing.T) {
	c, ok := Parse("sid=abc; Expires=Wed, 09 Jun 2021 10:18:14 GMT", ParseOptions{})
	if !ok {
		t.Fatalf("Parse() failed unexpectedly")
	}

	want, wantOK := parseCookieDate("Wed, 09 Jun 2021 10:18:14 GMT")
	if !wantOK {
		t.Fatalf("parseCookieDate() sanity check failed")
	}

	if !c.Expires.Equal(want) {
		t.Errorf("Expires = %v, want %v", c.Expires, want)
	}
}

// ------------------------------------------------------------------------

func TestParseUnrecognizedAttributeBecomesExtension(t *testing.T) {
	c, ok := Parse("sid=abc; SameSite=Lax; Priority=High", ParseOptions{})
	if !ok {
		t.Fatalf("Parse() failed unexpectedly")
	}

	want := []string{"SameSite=Lax", "Priority=High"}
	if !reflect.DeepEqual(c.Extensions, want) {
		t.Errorf("Extensions = %v, want %v", c.Extensions, want)
	}
}

// ------------------------------------------------------------------------

func TestParseInvalidMaxAgeIgnored(t *testing.T) {
	c, ok := Parse("sid=abc; Max-Age=notanumber", ParseOptions{})
	if !ok {
		t.Fatalf("Parse() failed unexpectedly")
	}
	if c.MaxAge.IsSet() {
		t.Errorf("MaxAge = %+v, want unset", c.MaxAge)
	}
}

// ------------------------------------------------------------------------

func TestParsePathWithoutLeadingSlashIgnored(t *testing.T) {
	c, ok := Parse("sid=abc; Path=relative", ParseOptions{})
	if !ok {
		t.Fatalf("Parse() failed unexpectedly")
	}
	if c.Path != "" {
		t.Errorf("Path = %q, want empty", c.Path)
	}
}

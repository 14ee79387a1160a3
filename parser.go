package cookiejar

import (
	"strconv"
	"strings"
)

// ------------------------------------------------------------------------

// ParseOptions configures Parse, mirroring spec §4.C's {loose?: bool}.
type ParseOptions struct {
	// Loose additionally accepts a bare "=value" pair (empty key).
	Loose bool
}

// ------------------------------------------------------------------------

// Parse turns a single Set-Cookie header value into a Cookie. It returns
// (nil, false) on any malformed input rather than an error — the Parser
// never throws, per spec §4.B/§4.C; Jar.Set is what turns a failed parse
// into a *setError.
func Parse(s string, opts ParseOptions) (*Cookie, bool) {
	s = strings.TrimSpace(s)

	head := s
	rest := ""
	if i := strings.IndexByte(s, ';'); i >= 0 {
		head, rest = s[:i], s[i+1:]
	}

	key, value, ok := matchNameValue(head, opts.Loose)
	if !ok {
		return nil, false
	}
	if hasControlByte(key) || hasControlByte(value) {
		return nil, false
	}

	c := NewCookie()
	c.Key = key
	c.Value = value

	if rest == "" {
		return c, true
	}

	for _, attr := range strings.Split(rest, ";") {
		applyAttribute(c, attr)
	}

	return c, true
}

// ------------------------------------------------------------------------

// matchNameValue implements the strict/loose regexes of spec §4.C against
// head without constructing a regexp.Regexp, since both grammars reduce to
// a single "split on the first unescaped '='" rule.
func matchNameValue(head string, loose bool) (key, value string, ok bool) {
	i := strings.IndexByte(head, '=')
	if i < 0 {
		if !loose {
			return "", "", false
		}
		// Loose mode has no equivalent of a bare token with no '=' either;
		// the RFC's loose grammar only widens the empty-key case below.
		return "", "", false
	}

	key = strings.TrimSpace(head[:i])
	value = strings.TrimSpace(head[i+1:])

	if key == "" && !loose {
		return "", "", false
	}

	return key, value, true
}

// ------------------------------------------------------------------------

func hasControlByte(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x1F {
			return true
		}
	}

	return false
}

// ------------------------------------------------------------------------

// applyAttribute parses one "name" or "name=value" token from the
// remainder of a Set-Cookie line and, if recognized, applies it to c.
// Unrecognized attributes are preserved verbatim in c.Extensions.
func applyAttribute(c *Cookie, attr string) {
	name := attr
	value := ""
	hasValue := false

	if i := strings.IndexByte(attr, '='); i >= 0 {
		name, value = attr[:i], attr[i+1:]
		hasValue = true
	}

	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)

	switch name {
	case "expires":
		if !hasValue {
			return
		}
		if t, ok := parseCookieDate(value); ok {
			c.Expires = t
		}
	case "max-age":
		if !hasValue || !isSignedDigits(value) {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		c.MaxAge = MaxAgeSeconds(n)
	case "domain":
		d := strings.TrimPrefix(value, ".")
		if d == "" {
			return
		}
		c.Domain = strings.ToLower(d)
	case "path":
		if value != "" && value[0] == '/' {
			c.Path = value
		} else {
			c.Path = ""
		}
	case "secure":
		c.Secure = true
	case "httponly":
		c.HttpOnly = true
	default:
		c.Extensions = append(c.Extensions, strings.TrimSpace(attr))
	}
}

// ------------------------------------------------------------------------

func isSignedDigits(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}

	return isDigits(s)
}

package cookiejar

import (
	"net"
	"strings"

	"github.com/jkfb/tough-cookie/idn"
	"github.com/jkfb/tough-cookie/publicsuffix"
)

// ------------------------------------------------------------------------

// canonicalDomain trims whitespace, strips a single leading dot, transcodes
// any non-ASCII host to its IDN A-label form and lower-cases the result.
//
// It mirrors the teacher's canonicalHost in cookiejar.go, generalized to
// not also strip a port (ports are a host/canon concern outside the cookie
// engine's remit — the caller supplies an already-split hostname).
func canonicalDomain(s string) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ".")

	ascii, err := idn.ToASCII(s)
	if err != nil {
		return "", err
	}

	return strings.ToLower(ascii), nil
}

// ------------------------------------------------------------------------

// isIP reports whether host is an IPv4 or IPv6 literal.
func isIP(host string) bool {
	return net.ParseIP(host) != nil
}

// ------------------------------------------------------------------------

// domainMatch implements RFC 6265 section 5.1.3. Both host and dom are
// assumed already canonicalized unless the caller states otherwise.
func domainMatch(host, dom string) bool {
	if dom == "" {
		return false
	}
	if host == dom {
		return true
	}
	if isIP(host) {
		return false
	}

	return hasDotSuffix(host, dom)
}

// ------------------------------------------------------------------------

// hasDotSuffix reports whether s ends in "."+suffix.
func hasDotSuffix(s, suffix string) bool {
	return len(s) > len(suffix) && s[len(s)-len(suffix)-1] == '.' && s[len(s)-len(suffix):] == suffix
}

// ------------------------------------------------------------------------

// defaultPath implements RFC 6265 section 5.1.4.
func defaultPath(uriPath string) string {
	if len(uriPath) == 0 || uriPath[0] != '/' {
		return "/"
	}

	i := strings.LastIndex(uriPath, "/")
	if i == 0 {
		return "/"
	}

	return uriPath[:i]
}

// ------------------------------------------------------------------------

// pathMatch implements RFC 6265 section 5.1.4.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	if cookiePath[len(cookiePath)-1] == '/' {
		return true
	}

	return reqPath[len(cookiePath)] == '/'
}

// ------------------------------------------------------------------------

// PermutePath returns the longest-to-shortest list of path prefixes of p,
// used by Store.FindCookies to enumerate the submaps that might hold a
// cookie whose stored Path is a prefix of the request path.
func PermutePath(p string) []string {
	if p == "/" || p == "" {
		return []string{"/"}
	}

	p = strings.TrimSuffix(p, "/")

	paths := []string{p}
	for {
		i := strings.LastIndex(p, "/")
		if i <= 0 {
			break
		}
		p = p[:i]
		paths = append(paths, p)
	}

	return append(paths, "/")
}

// ------------------------------------------------------------------------

// PermuteDomain returns d and every parent domain of d up to, but not
// including, the public suffix. For an IP literal or a bare public suffix
// it returns only d itself.
func PermuteDomain(d string) []string {
	if isIP(d) {
		return []string{d}
	}

	suffix, _ := publicsuffix.PublicSuffix(d)
	if suffix == d {
		return []string{d}
	}

	domains := []string{d}
	cur := d
	for {
		i := strings.Index(cur, ".")
		if i < 0 {
			break
		}
		cur = cur[i+1:]
		if len(cur) <= len(suffix) {
			break
		}
		domains = append(domains, cur)
	}

	return domains
}

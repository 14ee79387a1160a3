// Package cookiejar implements an RFC 6265 compliant HTTP cookie jar:
// Set-Cookie parsing, the cookie-date grammar, domain/path canonicalization
// and matching, and a policy-enforcing Jar that stores cookies through a
// pluggable Store backend (see the store/mem, store/badger, store/sqlite3,
// and store/asyncstore subpackages).
//
// A typical user parses nothing directly; they build a Jar over a Store
// and drive it with Set and Get:
//
//	jar, err := cookiejar.NewJar(mem.New(), cookiejar.DefaultJarConfig())
//	u, _ := urlinput.NewSimpleParser().Parse("https://example.com/")
//	jar.Set("session=abc123; Path=/; HttpOnly", u, cookiejar.SetOptions{})
//	header, _ := jar.GetCookieString(u, cookiejar.GetOptions{})
package cookiejar

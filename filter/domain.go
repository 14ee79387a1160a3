// Package filter compiles glob-style domain patterns (the same
// shell-glob syntax the teacher's crawl-time allow/deny lists use) into a
// matcher the cookiejar CLI applies to a --domain flag, so `cookiejar
// list --domain '*.example.com'` can select cookies without the caller
// writing a regular expression.
package filter

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

// DomainFilter matches a cookie's Domain against one or more glob
// patterns, e.g. "*.example.com" or "login.*".
type DomainFilter struct {
	globs []glob.Glob
}

// ------------------------------------------------------------------------

// NewDomainFilter compiles patterns into a DomainFilter. Empty strings
// are skipped; patterns that fail to compile are collected and reported
// together in the returned error, alongside whatever compiled subset was
// built.
func NewDomainFilter(patterns []string) (*DomainFilter, error) {
	f := &DomainFilter{globs: []glob.Glob{}}

	var bad []string

	for _, pattern := range patterns {
		if len(pattern) == 0 {
			continue
		}

		g, err := glob.Compile(pattern, '.')
		if err != nil {
			bad = append(bad, pattern)

			continue
		}

		f.globs = append(f.globs, g)
	}

	if len(bad) > 0 {
		return f, fmt.Errorf("unable to compile the following domain patterns: `%s`", strings.Join(bad, "`, `"))
	}

	return f, nil
}

// ------------------------------------------------------------------------

// Match reports whether domain matches any compiled pattern. A filter
// with no patterns matches nothing.
func (f *DomainFilter) Match(domain string) bool {
	for _, g := range f.globs {
		if g.Match(domain) {
			return true
		}
	}

	return false
}

// ------------------------------------------------------------------------

// Select returns the subset of cookies whose Domain matches f. An empty
// (pattern-less) filter is rejected with cookiejar.ErrNoFilterDefined
// rather than silently returning nothing.
func (f *DomainFilter) Select(cookies []*cookiejar.Cookie) ([]*cookiejar.Cookie, error) {
	if len(f.globs) == 0 {
		return nil, cookiejar.ErrNoFilterDefined
	}

	out := make([]*cookiejar.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if f.Match(c.Domain) {
			out = append(out, c)
		}
	}

	return out, nil
}

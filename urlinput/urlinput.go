// Package urlinput supplies Jar.Set/Jar.Get with a cookiejar.RequestURL,
// built from a raw URL string by one of two interchangeable parsers: the
// standard library's net/url, or the stricter WHATWG URL Standard parser.
// This mirrors how the teacher lets a crawl request be built by either a
// simple or a WHATWG-compliant URL parser, generalized to the one piece
// of URL data a cookie jar actually consumes: hostname, path, scheme.
package urlinput

import (
	"net/url"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

// Parser turns a raw URL string into a cookiejar.RequestURL.
type Parser interface {
	Parse(rawURL string) (cookiejar.RequestURL, error)
}

// ------------------------------------------------------------------------

type simpleParser struct {
	parser func(string) (*url.URL, error)
}

// ------------------------------------------------------------------------

// NewSimpleParser returns a Parser backed by net/url.Parse. It implements
// the Parser interface.
func NewSimpleParser() Parser {
	return &simpleParser{parser: url.Parse}
}

// ------------------------------------------------------------------------

// Parse parses rawURL into a cookiejar.RequestURL.
func (p *simpleParser) Parse(rawURL string) (cookiejar.RequestURL, error) {
	u, err := p.parser(rawURL)
	if err != nil {
		return nil, err
	}

	return cookiejar.FromURL(u), nil
}

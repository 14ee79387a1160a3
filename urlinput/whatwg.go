package urlinput

import (
	"net/url"

	whatwg "github.com/nlnwa/whatwg-url/url"

	"github.com/jkfb/tough-cookie"
)

// ------------------------------------------------------------------------

type whatwgParser struct {
	parser whatwg.Parser
}

// ------------------------------------------------------------------------

// NewWHATWGParser returns a Parser backed by the WHATWG URL Standard
// parser, which normalizes hosts (including IDN) and percent-encoding
// more aggressively than net/url. It implements the Parser interface.
func NewWHATWGParser() Parser {
	return &whatwgParser{
		parser: whatwg.NewParser(whatwg.WithPercentEncodeSinglePercentSign()),
	}
}

// ------------------------------------------------------------------------

// Parse parses rawURL into a cookiejar.RequestURL.
func (p *whatwgParser) Parse(rawURL string) (cookiejar.RequestURL, error) {
	wurl, err := p.parser.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(wurl.Href(false))
	if err != nil {
		return nil, err
	}

	return cookiejar.FromURL(u), nil
}

// ------------------------------------------------------------------------

// ParseRef parses rawURL resolved against ref into a cookiejar.RequestURL.
func (p *whatwgParser) ParseRef(rawURL, ref string) (cookiejar.RequestURL, error) {
	wurl, err := p.parser.ParseRef(rawURL, ref)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(wurl.Href(false))
	if err != nil {
		return nil, err
	}

	return cookiejar.FromURL(u), nil
}

package cookiejar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jkfb/tough-cookie/logger"
	"github.com/jkfb/tough-cookie/publicsuffix"
)

// ------------------------------------------------------------------------

// RequestURL is the subset of URL information Jar.Set/Get need. A
// *net/url.URL does not satisfy it directly (Path and Scheme are fields
// there, not methods); FromURL adapts one. Callers with their own URL type
// can implement it directly instead of constructing one (spec §6's
// "url.parse(urlString) -> {hostname, pathname, protocol}" collaborator).
type RequestURL interface {
	Hostname() string
	Path() string
	Scheme() string
}

// ------------------------------------------------------------------------

// stdURL adapts *net/url.URL to RequestURL.
type stdURL struct{ u *url.URL }

func (s stdURL) Hostname() string { return s.u.Hostname() }
func (s stdURL) Path() string     { return s.u.Path }
func (s stdURL) Scheme() string   { return s.u.Scheme }

// FromURL adapts a standard library *url.URL to RequestURL.
func FromURL(u *url.URL) RequestURL { return stdURL{u: u} }

// ------------------------------------------------------------------------

// SetOptions configures Jar.Set, mirroring spec §4.F's option bag.
type SetOptions struct {
	// Loose overrides the jar's configured LooseMode for this call when
	// Set is parsing a raw header string.
	Loose *bool

	// HTTP reports whether this Set happens on behalf of an HTTP
	// request (as opposed to e.g. document.cookie). Defaults to true;
	// false rejects an HttpOnly cookie.
	HTTP *bool

	// IgnoreError suppresses the returned error, yielding (nil, nil)
	// instead of (nil, err) for any policy failure.
	IgnoreError bool

	// Now overrides time.Now for testability and caller-supplied clocks.
	Now time.Time
}

// ------------------------------------------------------------------------

func (o SetOptions) http() bool {
	if o.HTTP == nil {
		return true
	}

	return *o.HTTP
}

func (o SetOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}

	return o.Now
}

// ------------------------------------------------------------------------

// GetOptions configures Jar.Get/GetCookieString/GetSetCookieStrings,
// mirroring spec §4.F's option bag.
type GetOptions struct {
	// Secure overrides the scheme-derived default (true for https/wss).
	Secure *bool

	// HTTP reports whether the retrieval happens on an HTTP code path.
	// Defaults to true; false filters out HttpOnly cookies.
	HTTP *bool

	// AllPaths disables the path filter entirely.
	AllPaths bool

	// ExpireCheck disables expiry-based eviction when set to false.
	// Defaults to true (enabled).
	ExpireCheck *bool

	// Sort disables cookieCompare ordering when set to false. Defaults
	// to true (enabled).
	Sort *bool

	// Now overrides time.Now.
	Now time.Time
}

func (o GetOptions) http() bool {
	if o.HTTP == nil {
		return true
	}

	return *o.HTTP
}

func (o GetOptions) expireCheck() bool {
	if o.ExpireCheck == nil {
		return true
	}

	return *o.ExpireCheck
}

func (o GetOptions) sort() bool {
	if o.Sort == nil {
		return true
	}

	return *o.Sort
}

func (o GetOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}

	return o.Now
}

func (o GetOptions) secure(scheme string) bool {
	if o.Secure != nil {
		return *o.Secure
	}

	return scheme == "https" || scheme == "wss"
}

// ------------------------------------------------------------------------

// Jar is the cookie policy engine: it turns Set-Cookie lines (or direct
// Cookie values) into stored records subject to RFC 6265's domain/path/
// public-suffix rules, and reassembles the correctly-ordered Cookie
// header for outgoing requests. It is a synchronous facade over a Store:
// NewJar refuses a store whose Synchronous() is false.
type Jar struct {
	store  Store
	config JarConfig
}

// ------------------------------------------------------------------------

// NewJar builds a Jar over s. s must report Synchronous() == true; this
// engine's Jar never suspends mid-operation, matching spec §5/§9's
// "synchronous facade... asserts the store's synchronous flag."
func NewJar(s Store, config JarConfig) (*Jar, error) {
	if s == nil {
		return nil, errors.New("cookiejar: NewJar requires a non-nil Store")
	}
	if !s.Synchronous() {
		return nil, ErrStoreAsynchronous
	}

	return &Jar{store: s, config: config}, nil
}

// ------------------------------------------------------------------------

func (j *Jar) log(level logger.Level, op, host string, values map[string]string) {
	if j.config.Logger == nil {
		return
	}
	j.config.Logger.Log(level, logger.NewEvent(op, host, values))
}

// ------------------------------------------------------------------------

// Set accepts either a *Cookie or a raw Set-Cookie header string and
// applies the RFC 6265 §5.2/§5.3 acceptance algorithm against u, storing
// the result. It implements spec component 4.F's set().
func (j *Jar) Set(cookieOrString any, u RequestURL, opts SetOptions) (*Cookie, error) {
	host, err := canonicalDomain(u.Hostname())
	if err != nil {
		return j.setResult(nil, newSetError(ErrParse, u.Hostname(), err.Error()), opts)
	}

	c, perr := j.resolveInputCookie(cookieOrString, host, opts)
	if perr != nil {
		return j.setResult(nil, perr, opts)
	}

	if j.config.RejectPublicSuffixes && c.Domain != "" {
		if !publicsuffix.HasRegistrableParent(c.Domain) {
			return j.setResult(nil, newSetError(ErrPublicSuffix, host, c.Domain), opts)
		}
	}

	if c.Domain != "" {
		if !domainMatch(host, c.Domain) {
			return j.setResult(nil, newSetError(ErrDomainMismatch, host, c.Domain), opts)
		}
		if c.HostOnly == HostOnlyUnknown {
			c.HostOnly = HostOnlyFalse
		}
	} else {
		c.HostOnly = HostOnlyTrue
		c.Domain = host
	}

	if c.Path == "" || c.Path[0] != '/' {
		c.Path = defaultPath(u.Path())
		c.PathIsDefault = true
	}

	if !opts.http() && c.HttpOnly {
		return j.setResult(nil, newSetError(ErrHttpOnlyRejected, host, c.Key), opts)
	}

	now := opts.now()

	old, err := j.store.Find(c.Domain, c.Path, c.Key)
	if err != nil {
		return j.setResult(nil, err, opts)
	}

	if old != nil {
		if !opts.http() && old.HttpOnly {
			return j.setResult(nil, newSetError(ErrHttpOnlyRejected, host, c.Key), opts)
		}

		c.Creation = old.Creation
		c.CreationIndex = old.CreationIndex
		c.LastAccessed = now

		if err := updateStore(j.store, old, c); err != nil {
			return j.setResult(nil, err, opts)
		}
	} else {
		c.Creation = now
		c.LastAccessed = now

		if err := j.store.Put(c); err != nil {
			return j.setResult(nil, err, opts)
		}
	}

	j.log(logger.INFO_LEVEL, "set", host, map[string]string{"key": c.Key, "domain": c.Domain, "path": c.Path})

	return c, nil
}

// ------------------------------------------------------------------------

// setResult applies the ignore_error contract: a non-nil err is logged at
// WARN and becomes (nil, nil) when opts.IgnoreError, else (nil, err) when
// err != nil, or (cookie, nil) for a successful set.
func (j *Jar) setResult(cookie *Cookie, err error, opts SetOptions) (*Cookie, error) {
	if err != nil {
		host := ""
		var se *setError
		if errors.As(err, &se) {
			host = se.host
		}
		j.log(logger.WARN_LEVEL, "set", host, map[string]string{"error": err.Error()})

		if opts.IgnoreError {
			return nil, nil
		}

		return nil, err
	}

	return cookie, nil
}

// ------------------------------------------------------------------------

func (j *Jar) resolveInputCookie(cookieOrString any, host string, opts SetOptions) (*Cookie, error) {
	switch v := cookieOrString.(type) {
	case *Cookie:
		return v.Clone(), nil
	case string:
		loose := j.config.LooseMode
		if opts.Loose != nil {
			loose = *opts.Loose
		}

		c, ok := Parse(v, ParseOptions{Loose: loose})
		if !ok {
			return nil, newSetError(ErrParse, host, v)
		}

		return c, nil
	default:
		return nil, newSetError(ErrParse, host, fmt.Sprintf("unsupported input type %T", cookieOrString))
	}
}

// ------------------------------------------------------------------------

// Get returns the ordered list of cookies RFC 6265 §5.4 would attach to a
// request for u. It implements spec component 4.F's get().
func (j *Jar) Get(u RequestURL, opts GetOptions) ([]*Cookie, error) {
	host, err := canonicalDomain(u.Hostname())
	if err != nil {
		return nil, err
	}

	reqPath := u.Path()
	if reqPath == "" {
		reqPath = "/"
	}

	candidates, err := j.store.FindCookies(host, reqPath, opts.AllPaths)
	if err != nil {
		return nil, err
	}

	now := opts.now()
	secure := opts.secure(u.Scheme())
	http := opts.http()
	expireCheck := opts.expireCheck()

	out := make([]*Cookie, 0, len(candidates))

	for _, c := range candidates {
		if c.HostOnly == HostOnlyTrue {
			if c.Domain != host {
				continue
			}
		} else if !domainMatch(host, c.Domain) {
			continue
		}

		if !opts.AllPaths && !pathMatch(reqPath, c.Path) {
			continue
		}
		if c.Secure && !secure {
			continue
		}
		if c.HttpOnly && !http {
			continue
		}

		if expireCheck && c.IsExpired(now) {
			_ = j.store.Remove(c.Domain, c.Path, c.Key)
			j.log(logger.DEBUG_LEVEL, "evict", host, map[string]string{"key": c.Key})

			continue
		}

		c.LastAccessed = now
		out = append(out, c)
	}

	if opts.sort() {
		sortCookies(out)
	}

	j.log(logger.DEBUG_LEVEL, "get", host, map[string]string{"count": fmt.Sprintf("%d", len(out))})

	return out, nil
}

// ------------------------------------------------------------------------

// GetCookieString renders the Cookie: header value for u.
func (j *Jar) GetCookieString(u RequestURL, opts GetOptions) (string, error) {
	cookies, err := j.Get(u, opts)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.CookieString()
	}

	return strings.Join(parts, "; "), nil
}

// ------------------------------------------------------------------------

// GetSetCookieStrings renders each matching cookie the way it would
// appear in its own Set-Cookie: header (attributes included).
func (j *Jar) GetSetCookieStrings(u RequestURL, opts GetOptions) ([]string, error) {
	cookies, err := j.Get(u, opts)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(cookies))
	for i, c := range cookies {
		out[i] = c.String()
	}

	return out, nil
}

// ------------------------------------------------------------------------

// sortCookies applies cookieCompare in place: longer Path first, then
// earlier Creation, then ascending CreationIndex.
func sortCookies(cookies []*Cookie) {
	sort.SliceStable(cookies, func(i, k int) bool {
		return cookieCompare(cookies[i], cookies[k]) < 0
	})
}

// ------------------------------------------------------------------------

// cookieCompare implements spec component G's total order: longer
// Path.length first (descending), then earlier Creation (ascending, a
// zero Creation sorting as MaxTime), then ascending CreationIndex.
func cookieCompare(a, b *Cookie) int {
	if len(a.Path) != len(b.Path) {
		if len(a.Path) > len(b.Path) {
			return -1
		}

		return 1
	}

	at, bt := a.Creation, b.Creation
	if at.IsZero() {
		at = MaxTime
	}
	if bt.IsZero() {
		bt = MaxTime
	}

	if !at.Equal(bt) {
		if at.Before(bt) {
			return -1
		}

		return 1
	}

	switch {
	case a.CreationIndex < b.CreationIndex:
		return -1
	case a.CreationIndex > b.CreationIndex:
		return 1
	default:
		return 0
	}
}

// ------------------------------------------------------------------------

// Serialize enumerates every stored cookie (requires the store to
// implement Enumerator) into the wire shape spec §6 describes.
func (j *Jar) Serialize() ([]byte, error) {
	cookies, ok, err := getAllFromStore(j.store)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSerialization
	}

	sortCookies(cookies)

	records := make([]json.RawMessage, len(cookies))
	for i, c := range cookies {
		raw, err := c.ToJSON()
		if err != nil {
			return nil, err
		}
		records[i] = raw
	}

	return json.Marshal(struct {
		StoreType            string            `json:"storeType"`
		RejectPublicSuffixes bool              `json:"rejectPublicSuffixes"`
		Cookies              []json.RawMessage `json:"cookies"`
	}{
		StoreType:            fmt.Sprintf("%T", j.store),
		RejectPublicSuffixes: j.config.RejectPublicSuffixes,
		Cookies:              records,
	})
}

// ------------------------------------------------------------------------

// Deserialize rebuilds a Jar from the blob Serialize produced, storing
// cookies into s. s must be non-nil: this package has no default store, to
// avoid importing store/mem and creating an import cycle, so a nil s fails
// in NewJar. Malformed individual records are skipped, not fatal.
func Deserialize(blob []byte, s Store, config JarConfig) (*Jar, error) {
	var wire struct {
		RejectPublicSuffixes bool              `json:"rejectPublicSuffixes"`
		Cookies              []json.RawMessage `json:"cookies"`
	}
	if err := json.Unmarshal(blob, &wire); err != nil {
		return nil, fmt.Errorf("cookiejar: deserialize: %w", err)
	}

	config.RejectPublicSuffixes = wire.RejectPublicSuffixes

	j, err := NewJar(s, config)
	if err != nil {
		return nil, err
	}

	for _, raw := range wire.Cookies {
		c, err := CookieFromJSON(raw)
		if err != nil {
			continue
		}
		if err := j.store.Put(c); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// ------------------------------------------------------------------------

// Clone serializes j and deserializes it into a fresh Jar backed by dst
// (spec §4.F's clone()).
func (j *Jar) Clone(dst Store) (*Jar, error) {
	blob, err := j.Serialize()
	if err != nil {
		return nil, err
	}

	return Deserialize(blob, dst, j.config)
}

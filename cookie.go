package cookiejar

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jkfb/tough-cookie/publicsuffix"
)

// ------------------------------------------------------------------------

// HostOnlyState is the Cookie.HostOnly tri-state from spec §3: unknown
// before a jar has accepted the cookie, then pinned true or false for the
// rest of the cookie's life.
type HostOnlyState uint8

const (
	HostOnlyUnknown HostOnlyState = iota
	HostOnlyTrue
	HostOnlyFalse
)

// ------------------------------------------------------------------------

// MaxAge is the Cookie.MaxAge sum type from spec §3/§9: absent, a finite
// second count (which may be zero or negative, meaning "already expired"),
// or one of the +Forever/-Forever sentinels. Modeled as an enum-plus-
// payload rather than a magic integer, per the design note in spec §9.
type MaxAge struct {
	set      bool
	infinite int8 // +1 = +Forever, -1 = -Forever, 0 = finite (see seconds)
	seconds  int
}

// ------------------------------------------------------------------------

// MaxAgeUnset is the zero value: no Max-Age attribute was ever set.
var MaxAgeUnset = MaxAge{}

// MaxAgePositiveForever and MaxAgeNegativeForever are the +Infinity and
// -Infinity sentinels a caller may assign directly through the API (never
// produced by the Set-Cookie parser itself, per spec §4.C).
var (
	MaxAgePositiveForever = MaxAge{set: true, infinite: 1}
	MaxAgeNegativeForever = MaxAge{set: true, infinite: -1}
)

// MaxAgeSeconds builds a finite Max-Age. n may be zero or negative.
func MaxAgeSeconds(n int) MaxAge {
	return MaxAge{set: true, seconds: n}
}

// ------------------------------------------------------------------------

// IsSet reports whether a Max-Age attribute is present at all.
func (m MaxAge) IsSet() bool { return m.set }

// IsExpired reports whether m unconditionally means "already expired":
// -Forever, or a finite value <= 0 (spec invariant 6).
func (m MaxAge) IsExpired() bool {
	return m.set && (m.infinite < 0 || (m.infinite == 0 && m.seconds <= 0))
}

// IsPositiveForever reports whether m is the +Forever sentinel.
func (m MaxAge) IsPositiveForever() bool { return m.set && m.infinite > 0 }

// Seconds returns the finite second count. It is only meaningful when
// IsSet is true and neither infinite sentinel applies.
func (m MaxAge) Seconds() int { return m.seconds }

// ------------------------------------------------------------------------

// GobEncode and GobDecode let a Cookie (and therefore a whole store
// submap) round-trip through encoding/gob despite MaxAge's fields being
// unexported.
func (m MaxAge) GobEncode() ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := gob.NewEncoder(buf)

	if err := enc.Encode(m.set); err != nil {
		return nil, err
	}
	if err := enc.Encode(m.infinite); err != nil {
		return nil, err
	}
	if err := enc.Encode(m.seconds); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (m *MaxAge) GobDecode(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))

	if err := dec.Decode(&m.set); err != nil {
		return err
	}
	if err := dec.Decode(&m.infinite); err != nil {
		return err
	}

	return dec.Decode(&m.seconds)
}

// ------------------------------------------------------------------------

// timeSentinel distinguishes a finite instant from the +/-Infinity
// sentinels that Cookie.ExpiryTime can produce.
type timeSentinel int8

const (
	timeFinite           timeSentinel = 0
	timePositiveInfinity timeSentinel = 1
	timeNegativeInfinity timeSentinel = -1
)

// MaxTime is 2,147,483,647,000ms (2038-01-19T03:14:07Z) — the classic
// 32-bit time_t ceiling spec §4.D maps +Infinity onto for ExpiryDate.
var MaxTime = time.Unix(2147483647, 0).UTC()

// epoch is what -Infinity maps onto for ExpiryDate.
var epoch = time.Unix(0, 0).UTC()

// ------------------------------------------------------------------------

// creationCounter mints Cookie.CreationIndex. It is the one process-wide
// piece of shared state in the engine (spec §5 "Shared-resource policy"),
// written atomically so construction is safe from concurrent goroutines.
var creationCounter uint64

// ------------------------------------------------------------------------

// Cookie is the internal representation of a cookie described in spec §3.
// All fields are semantic, not wire-level: a zero Expires means "Forever"
// (a session cookie with no explicit expiry), the same convention the
// teacher's cookiejar.go entry type uses for its own Expires field.
type Cookie struct {
	Key   string
	Value string

	Expires time.Time // zero value means the Forever sentinel
	MaxAge  MaxAge

	Domain string // canonical, no leading dot; "" means absent
	Path   string // absolute, begins with "/"; "" means absent

	Secure   bool
	HttpOnly bool
	HostOnly HostOnlyState

	PathIsDefault bool

	Creation      time.Time
	LastAccessed  time.Time
	CreationIndex uint64

	Extensions []string
}

// ------------------------------------------------------------------------

// NewCookie returns a Cookie with a freshly minted CreationIndex. Every
// Cookie that will ever be compared by cookieCompare must be built this
// way (directly, via Parse, or via CookieFromJSON) so creation order is total.
func NewCookie() *Cookie {
	return &Cookie{CreationIndex: atomic.AddUint64(&creationCounter, 1)}
}

// ------------------------------------------------------------------------

// Clone returns a deep copy of c: a copy of the struct with its own
// Extensions slice. It does not go through ToJSON/CookieFromJSON, so it
// keeps CreationIndex (which that round trip drops) and sub-second
// timestamp precision.
func (c *Cookie) Clone() *Cookie {
	clone := *c
	clone.Extensions = append([]string(nil), c.Extensions...)

	return &clone
}

// ------------------------------------------------------------------------

// SetExpires accepts either a time.Time or a cookie-date string. A string
// that fails to parse assigns the Forever sentinel rather than returning
// an error, matching the Parser's "ignore the attribute on failure" rule
// in spec §4.C applied generally to direct API use.
func (c *Cookie) SetExpires(v any) {
	switch x := v.(type) {
	case time.Time:
		c.Expires = x
	case string:
		if t, ok := parseCookieDate(x); ok {
			c.Expires = t
		} else {
			c.Expires = time.Time{}
		}
	default:
		c.Expires = time.Time{}
	}
}

// ------------------------------------------------------------------------

// SetMaxAge stores m, keeping the +Forever/-Forever sentinels distinct
// from finite values (spec §4.D).
func (c *Cookie) SetMaxAge(m MaxAge) {
	c.MaxAge = m
}

// ------------------------------------------------------------------------

// TTL returns the cookie's time-to-live measured from now. DurationForever
// (math.MaxInt64) stands in for the RFC's "no expiry" +Infinity, since
// time.Duration has no native infinite value.
const DurationForever = time.Duration(1<<63 - 1)

func (c *Cookie) TTL(now time.Time) time.Duration {
	if c.MaxAge.IsSet() {
		if c.MaxAge.IsExpired() {
			return 0
		}
		if c.MaxAge.IsPositiveForever() {
			return DurationForever
		}

		return time.Duration(c.MaxAge.Seconds()) * time.Second
	}

	if c.Expires.IsZero() {
		return DurationForever
	}

	return c.Expires.Sub(now)
}

// ------------------------------------------------------------------------

// ExpiryTime returns the instant at which c expires, plus which infinity
// sentinel (if any) that instant represents. now is used to anchor a
// Max-Age-relative expiry (preferring Creation, then the current time, per
// spec §4.D).
func (c *Cookie) expiryTime(now time.Time) (time.Time, timeSentinel) {
	if c.MaxAge.IsSet() {
		if c.MaxAge.IsExpired() {
			return time.Time{}, timeNegativeInfinity
		}
		if c.MaxAge.IsPositiveForever() {
			return time.Time{}, timePositiveInfinity
		}

		anchor := c.Creation
		if anchor.IsZero() {
			anchor = now
		}
		if now.IsZero() {
			now = anchor
		}
		if anchor.IsZero() {
			anchor = now
		}

		return anchor.Add(time.Duration(c.MaxAge.Seconds()) * time.Second), timeFinite
	}

	if c.Expires.IsZero() {
		return time.Time{}, timePositiveInfinity
	}

	return c.Expires, timeFinite
}

// ExpiryTime is the exported form of expiryTime used by callers that only
// care about the concrete cutoff (treating +Infinity as "never" via the
// zero-value/ok pair).
func (c *Cookie) ExpiryTime(now time.Time) (t time.Time, ok bool) {
	at, kind := c.expiryTime(now)
	if kind == timePositiveInfinity {
		return time.Time{}, false
	}
	if kind == timeNegativeInfinity {
		return epoch, true
	}

	return at, true
}

// ------------------------------------------------------------------------

// ExpiryDate maps ExpiryTime onto a concrete instant, per spec §4.D:
// +Infinity becomes MaxTime, -Infinity becomes the Unix epoch.
func (c *Cookie) ExpiryDate(now time.Time) time.Time {
	at, kind := c.expiryTime(now)

	switch kind {
	case timePositiveInfinity:
		return MaxTime
	case timeNegativeInfinity:
		return epoch
	default:
		return at
	}
}

// ------------------------------------------------------------------------

// IsExpired reports whether c's expiry time is at or before now — the
// check Jar.Get uses to decide whether to evict a stored cookie.
func (c *Cookie) IsExpired(now time.Time) bool {
	at, kind := c.expiryTime(now)

	switch kind {
	case timePositiveInfinity:
		return false
	case timeNegativeInfinity:
		return true
	default:
		return !at.After(now)
	}
}

// ------------------------------------------------------------------------

// IsPersistent reports whether c survives past the current session: it
// has a Max-Age, or an Expires other than Forever.
func (c *Cookie) IsPersistent() bool {
	return c.MaxAge.IsSet() || !c.Expires.IsZero()
}

// ------------------------------------------------------------------------

// CookieString renders c the way it would appear in an outgoing Cookie:
// header, with no attributes.
func (c *Cookie) CookieString() string {
	if c.Key == "" {
		return c.Value
	}

	return c.Key + "=" + c.Value
}

// ------------------------------------------------------------------------

// String renders c the way it would appear in a Set-Cookie: response
// header, attributes included, per spec §4.D.
func (c *Cookie) String() string {
	s := c.CookieString()

	if !c.Expires.IsZero() {
		s += "; Expires=" + formatRFC1123(c.Expires)
	}
	if c.MaxAge.IsSet() && c.MaxAge.infinite == 0 {
		s += fmt.Sprintf("; Max-Age=%d", c.MaxAge.Seconds())
	}
	if c.Domain != "" && c.HostOnly != HostOnlyTrue {
		s += "; Domain=" + c.Domain
	}
	if c.Path != "" {
		s += "; Path=" + c.Path
	}
	if c.Secure {
		s += "; Secure"
	}
	if c.HttpOnly {
		s += "; HttpOnly"
	}
	for _, ext := range c.Extensions {
		s += "; " + ext
	}

	return s
}

// ------------------------------------------------------------------------

// cookieOctet reports whether r is a legal cookie-octet: visible US-ASCII
// minus '"', ',', ';' and '\'.
func cookieOctet(r rune) bool {
	switch r {
	case '"', ',', ';', '\\':
		return false
	}

	return r >= 0x21 && r <= 0x7E
}

// ------------------------------------------------------------------------

func validateCookieValue(v string) bool {
	for _, r := range v {
		if !cookieOctet(r) {
			return false
		}
	}

	return true
}

// ------------------------------------------------------------------------

func validateCookiePath(p string) bool {
	for _, r := range p {
		if !((r >= 0x20 && r <= 0x3A) || (r >= 0x3C && r <= 0x7E)) {
			return false
		}
	}

	return true
}

// ------------------------------------------------------------------------

// Validate reports whether c satisfies the static well-formedness checks
// of spec §4.D. It is a standalone sanity check, never invoked implicitly
// by Parse or Jar.Set/Get.
func (c *Cookie) Validate() bool {
	if !validateCookieValue(c.Value) {
		return false
	}
	if c.MaxAge.IsSet() && c.MaxAge.infinite == 0 && c.MaxAge.seconds <= 0 {
		return false
	}
	if c.Path != "" && !validateCookiePath(c.Path) {
		return false
	}
	if c.Domain != "" {
		if c.Domain[len(c.Domain)-1] == '.' {
			return false
		}
		if !publicsuffix.HasRegistrableParent(c.Domain) {
			return false
		}
	}

	return true
}

// ------------------------------------------------------------------------

// cookieWire is the on-the-wire JSON shape from spec §6: omit-if-default
// fields, ISO 8601 timestamps, and the "Infinity"/"-Infinity" string
// sentinels for the two fields that can hold them. CreationIndex is
// intentionally absent — it is process-local and not meaningful once
// serialized.
type cookieWire struct {
	Key           string   `json:"key,omitempty"`
	Value         string   `json:"value"`
	Expires       any      `json:"expires,omitempty"`
	MaxAge        any      `json:"maxAge,omitempty"`
	Domain        string   `json:"domain,omitempty"`
	Path          string   `json:"path,omitempty"`
	Secure        bool     `json:"secure,omitempty"`
	HttpOnly      bool     `json:"httpOnly,omitempty"`
	HostOnly      *bool    `json:"hostOnly,omitempty"`
	PathIsDefault bool     `json:"pathIsDefault,omitempty"`
	Creation      string   `json:"creation,omitempty"`
	LastAccessed  string   `json:"lastAccessed,omitempty"`
	Extensions    []string `json:"extensions,omitempty"`
}

// ------------------------------------------------------------------------

// ToJSON renders c in the wire shape of spec §6.
func (c *Cookie) ToJSON() ([]byte, error) {
	w := cookieWire{
		Key:           c.Key,
		Value:         c.Value,
		Domain:        c.Domain,
		Path:          c.Path,
		Secure:        c.Secure,
		HttpOnly:      c.HttpOnly,
		PathIsDefault: c.PathIsDefault,
		Extensions:    c.Extensions,
	}

	if !c.Expires.IsZero() {
		w.Expires = c.Expires.UTC().Format(time.RFC3339)
	}

	switch {
	case c.MaxAge.IsSet() && c.MaxAge.infinite > 0:
		w.MaxAge = "Infinity"
	case c.MaxAge.IsSet() && c.MaxAge.infinite < 0:
		w.MaxAge = "-Infinity"
	case c.MaxAge.IsSet():
		w.MaxAge = c.MaxAge.seconds
	}

	switch c.HostOnly {
	case HostOnlyTrue:
		t := true
		w.HostOnly = &t
	case HostOnlyFalse:
		f := false
		w.HostOnly = &f
	}

	if !c.Creation.IsZero() {
		w.Creation = c.Creation.UTC().Format(time.RFC3339)
	}
	if !c.LastAccessed.IsZero() {
		w.LastAccessed = c.LastAccessed.UTC().Format(time.RFC3339)
	}

	return json.Marshal(w)
}

// ------------------------------------------------------------------------

// CookieFromJSON parses the wire shape ToJSON produces, minting a fresh
// CreationIndex since the wire form never carries one.
func CookieFromJSON(data []byte) (*Cookie, error) {
	var w cookieWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("cookiejar: %w", err)
	}

	c := NewCookie()
	c.Key = w.Key
	c.Value = w.Value
	c.Domain = w.Domain
	c.Path = w.Path
	c.Secure = w.Secure
	c.HttpOnly = w.HttpOnly
	c.PathIsDefault = w.PathIsDefault
	c.Extensions = w.Extensions

	if w.HostOnly != nil {
		if *w.HostOnly {
			c.HostOnly = HostOnlyTrue
		} else {
			c.HostOnly = HostOnlyFalse
		}
	}

	if s, isStr := w.Expires.(string); isStr && s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("cookiejar: expires: %w", err)
		}
		c.Expires = t
	}

	switch v := w.MaxAge.(type) {
	case nil:
	case string:
		switch v {
		case "Infinity":
			c.MaxAge = MaxAgePositiveForever
		case "-Infinity":
			c.MaxAge = MaxAgeNegativeForever
		default:
			return nil, fmt.Errorf("cookiejar: maxAge: unrecognized sentinel %q", v)
		}
	case float64:
		c.MaxAge = MaxAgeSeconds(int(v))
	default:
		return nil, fmt.Errorf("cookiejar: maxAge: unexpected type %T", v)
	}

	if w.Creation != "" {
		t, err := time.Parse(time.RFC3339, w.Creation)
		if err != nil {
			return nil, fmt.Errorf("cookiejar: creation: %w", err)
		}
		c.Creation = t
	}
	if w.LastAccessed != "" {
		t, err := time.Parse(time.RFC3339, w.LastAccessed)
		if err != nil {
			return nil, fmt.Errorf("cookiejar: lastAccessed: %w", err)
		}
		c.LastAccessed = t
	}

	return c, nil
}

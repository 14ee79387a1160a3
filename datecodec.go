package cookiejar

import (
	"strconv"
	"strings"
	"time"
)

// ------------------------------------------------------------------------

// parseCookieDate implements the RFC 6265 section 5.1.1 cookie-date parser.
// It never returns an error on malformed input — callers get a zero
// time.Time and ok == false, matching the "never throw" contract of spec
// §4.B.
func parseCookieDate(s string) (t time.Time, ok bool) {
	var (
		haveTime, haveDay, haveMonth, haveYear bool
		hour, min, sec, day, month, year       int
	)

	for _, tok := range tokenizeCookieDate(s) {
		if !haveTime {
			if h, m, se, good := matchTime(tok); good {
				if h > 23 || m > 59 || se > 59 {
					return time.Time{}, false
				}
				hour, min, sec = h, m, se
				haveTime = true

				continue
			}
		}
		if !haveDay {
			if d, good := matchDayOfMonth(tok); good {
				day = d
				haveDay = true

				continue
			}
		}
		if !haveMonth {
			if m, good := matchMonth(tok); good {
				month = m
				haveMonth = true

				continue
			}
		}
		if !haveYear {
			if y, good := matchYear(tok); good {
				year = y
				haveYear = true

				continue
			}
		}
	}

	if !haveTime || !haveDay || !haveMonth || !haveYear {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), true
}

// ------------------------------------------------------------------------

// isDelim reports whether r belongs to the RFC 6265 delimiter class:
// [\t \x20-\x2F \x3B-\x40 \x5B-\x60 \x7B-\x7E].
func isDelim(r rune) bool {
	switch {
	case r == '\t':
		return true
	case r >= 0x20 && r <= 0x2F:
		return true
	case r >= 0x3B && r <= 0x40:
		return true
	case r >= 0x5B && r <= 0x60:
		return true
	case r >= 0x7B && r <= 0x7E:
		return true
	}

	return false
}

// ------------------------------------------------------------------------

// tokenizeCookieDate splits s on isDelim, dropping empty tokens.
func tokenizeCookieDate(s string) []string {
	return strings.FieldsFunc(s, isDelim)
}

// ------------------------------------------------------------------------

// matchTime matches HH:MM:SS with one or two digits per field. Range
// validation is the caller's job (a failed range check fails the whole
// parse per spec §4.B).
func matchTime(tok string) (hour, min, sec int, ok bool) {
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	vals := make([]int, 3)
	for i, p := range parts {
		if len(p) < 1 || len(p) > 2 || !isDigits(p) {
			return 0, 0, 0, false
		}
		vals[i], _ = strconv.Atoi(p)
	}

	return vals[0], vals[1], vals[2], true
}

// ------------------------------------------------------------------------

// matchDayOfMonth matches a 1-2 digit day-of-month in [1, 31].
func matchDayOfMonth(tok string) (day int, ok bool) {
	if len(tok) < 1 || len(tok) > 2 || !isDigits(tok) {
		return 0, false
	}

	d, _ := strconv.Atoi(tok)
	if d < 1 || d > 31 {
		return 0, false
	}

	return d, true
}

// ------------------------------------------------------------------------

var monthNames = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// matchMonth matches a case-insensitive 3-letter English month name.
func matchMonth(tok string) (month int, ok bool) {
	if len(tok) < 3 {
		return 0, false
	}

	lower := strings.ToLower(tok[:3])
	for i, name := range monthNames {
		if lower == name {
			return i + 1, true
		}
	}

	return 0, false
}

// ------------------------------------------------------------------------

// matchYear matches a 2- or 4-digit year and applies the RFC 6265
// year-window adjustment, rejecting anything that resolves below 1601.
func matchYear(tok string) (year int, ok bool) {
	if !isDigits(tok) {
		return 0, false
	}

	switch len(tok) {
	case 2:
		y, _ := strconv.Atoi(tok)
		switch {
		case y >= 70 && y <= 99:
			y += 1900
		default:
			y += 2000
		}
		year = y
	case 4:
		year, _ = strconv.Atoi(tok)
	default:
		return 0, false
	}

	if year < 1601 {
		return 0, false
	}

	return year, true
}

// ------------------------------------------------------------------------

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// ------------------------------------------------------------------------

// formatRFC1123 emits the RFC 1123 form used for the Expires attribute:
// "Thu, 01 Jan 1970 00:00:00 GMT".
func formatRFC1123(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
}

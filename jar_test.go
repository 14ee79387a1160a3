package cookiejar

import (
	"testing"
	"time"
)

// ------------------------------------------------------------------------

func TestCookieCompare(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tests := []struct {
		name string
		a, b *Cookie
		want int
	}{
		{
			name: "longer path sorts first",
			a:    &Cookie{Path: "/foo/bar"},
			b:    &Cookie{Path: "/foo"},
			want: -1,
		},
		{
			name: "shorter path sorts after",
			a:    &Cookie{Path: "/foo"},
			b:    &Cookie{Path: "/foo/bar"},
			want: 1,
		},
		{
			name: "equal path, earlier creation sorts first",
			a:    &Cookie{Path: "/", Creation: t0},
			b:    &Cookie{Path: "/", Creation: t1},
			want: -1,
		},
		{
			name: "equal path and creation, lower creation index sorts first",
			a:    &Cookie{Path: "/", Creation: t0, CreationIndex: 1},
			b:    &Cookie{Path: "/", Creation: t0, CreationIndex: 2},
			want: -1,
		},
		{
			name: "fully equal",
			a:    &Cookie{Path: "/", Creation: t0, CreationIndex: 1},
			b:    &Cookie{Path: "/", Creation: t0, CreationIndex: 1},
			want: 0,
		},
		{
			name: "zero creation treated as MaxTime, sorts after a real creation",
			a:    &Cookie{Path: "/", Creation: t0},
			b:    &Cookie{Path: "/"},
			want: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cookieCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("cookieCompare() = %d, want %d", got, tt.want)
			}
		})
	}
}

// ------------------------------------------------------------------------

func TestSortCookies(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := &Cookie{Key: "a", Path: "/", Creation: t0, CreationIndex: 2}
	b := &Cookie{Key: "b", Path: "/deep", Creation: t0, CreationIndex: 1}
	c := &Cookie{Key: "c", Path: "/", Creation: t0.Add(-time.Minute), CreationIndex: 3}

	cookies := []*Cookie{a, b, c}
	sortCookies(cookies)

	want := []string{"b", "c", "a"}
	for i, k := range want {
		if cookies[i].Key != k {
			t.Errorf("position %d = %q, want %q (order: %v)", i, cookies[i].Key, k, keysOf(cookies))
		}
	}
}

// ------------------------------------------------------------------------

func keysOf(cookies []*Cookie) []string {
	keys := make([]string, len(cookies))
	for i, c := range cookies {
		keys[i] = c.Key
	}

	return keys
}

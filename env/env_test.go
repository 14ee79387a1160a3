package env

import (
	"reflect"
	"testing"
)

// ------------------------------------------------------------------------

func TestNewFromMap(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		values map[string]string
		dict   map[string]string
		want   map[string]string
	}{
		{
			name:   "filters by prefix and strips it",
			prefix: "APP_",
			values: map[string]string{"APP_FOO": "1", "OTHER_BAR": "2"},
			want:   map[string]string{"FOO": "1"},
		},
		{
			name:   "dict translates keys",
			prefix: "APP_",
			values: map[string]string{"APP_FOO_BAR": "1"},
			dict:   map[string]string{"FOO_BAR": "fooBar"},
			want:   map[string]string{"fooBar": "1"},
		},
		{
			name:   "no matches",
			prefix: "APP_",
			values: map[string]string{"OTHER": "1"},
			want:   map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFromMap(tt.prefix, tt.values, tt.dict)
			if got := e.Values(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ------------------------------------------------------------------------

func TestEnvironmentSetAndUnset(t *testing.T) {
	e := NewFromMap("APP_", map[string]string{"APP_FOO": "1"}, nil)

	e.Set("bar", "2")
	if got := e.Values()["bar"]; got != "2" {
		t.Errorf("Values()[bar] = %q, want %q", got, "2")
	}

	e.Unset("bar")
	if _, present := e.Values()["bar"]; present {
		t.Errorf("Values()[bar] still present after Unset")
	}
}

// ------------------------------------------------------------------------

func TestEnvironmentSetPrefixed(t *testing.T) {
	e := NewFromMap("APP_", nil, nil)

	e.SetPrefixed("baz", "APP_ignored")
	if got := e.Values()["baz"]; got != "APP_ignored" {
		t.Errorf("SetPrefixed with prefixed value should set directly: got %q", got)
	}

	e.SetPrefixed("qux", "NOPREFIX")
	if _, present := e.Values()["qux"]; present {
		t.Errorf("SetPrefixed with unprefixed value should be ignored")
	}
}

// ------------------------------------------------------------------------

func TestEnvironmentSetDictionaryAndPrefix(t *testing.T) {
	e := NewFromMap("APP_", nil, nil)

	e.SetDictionary(map[string]string{"raw": "translated"})
	e.Set("raw", "1")
	if got := e.Values()["translated"]; got != "1" {
		t.Errorf("Set() after SetDictionary = %q, want value under translated key", got)
	}

	e.SetPrefix("OTHER_")
	e.SetPrefixed("x", "OTHER_1")
	if got := e.Values()["x"]; got != "OTHER_1" {
		t.Errorf("SetPrefixed() after SetPrefix = %q, want %q", got, "OTHER_1")
	}
}

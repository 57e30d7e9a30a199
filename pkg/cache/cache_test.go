package cache

import (
	"net/url"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	params := url.Values{"b": {"2"}, "a": {"1"}}
	k1 := Fingerprint("GET", "/accounts/", params, nil, "alice")
	k2 := Fingerprint("GET", "/accounts/", url.Values{"a": {"1"}, "b": {"2"}}, nil, "alice")
	if k1 != k2 {
		t.Error("same request produced different fingerprints")
	}
}

func TestFingerprint_Distinguishes(t *testing.T) {
	base := Fingerprint("GET", "/accounts/", url.Values{}, nil, "alice")
	cases := []struct {
		name string
		key  string
	}{
		{"method", Fingerprint("POST", "/accounts/", url.Values{}, nil, "alice")},
		{"path", Fingerprint("GET", "/users/", url.Values{}, nil, "alice")},
		{"query", Fingerprint("GET", "/accounts/", url.Values{"page": {"2"}}, nil, "alice")},
		{"body", Fingerprint("GET", "/accounts/", url.Values{}, []byte(`{}`), "alice")},
		{"subject", Fingerprint("GET", "/accounts/", url.Values{}, nil, "bob")},
	}
	for _, c := range cases {
		if c.key == base {
			t.Errorf("changing %s did not change the fingerprint", c.name)
		}
	}
}

func TestFingerprint_FieldBoundaries(t *testing.T) {
	// The separator keeps adjacent fields from aliasing each other.
	k1 := Fingerprint("GET", "/ab", url.Values{}, nil, "")
	k2 := Fingerprint("GE", "T/ab", url.Values{}, nil, "")
	if k1 == k2 {
		t.Error("field boundary aliasing")
	}
}

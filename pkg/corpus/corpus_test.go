package corpus

import "testing"

func TestNormalizeWord(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"piano", "PIANO"},
		{"  Piano  ", "PIANO"},
		{"ice cream", "ICECREAM"},
		{"mother-in-law", "MOTHERINLAW"},
		{"it's", "ITS"},
		{"42", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeWord(tc.raw); got != tc.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSourcesRoundTrip(t *testing.T) {
	joined := JoinSources([]string{"jones", "broda", "user"})
	if joined != "broda,jones,user" {
		t.Errorf("JoinSources = %q, want sorted comma form", joined)
	}

	split := SplitSources(joined)
	if len(split) != 3 || split[0] != "broda" || split[2] != "user" {
		t.Errorf("SplitSources(%q) = %v", joined, split)
	}

	if SplitSources("") != nil {
		t.Error("SplitSources of empty string should be nil")
	}
	if JoinSources(nil) != "" {
		t.Error("JoinSources of nil should be empty")
	}
}

func TestHasSource(t *testing.T) {
	w := Word{Sources: []string{"jones", "user"}}
	if !w.HasSource("user") {
		t.Error("HasSource(user) = false")
	}
	if w.HasSource("broda") {
		t.Error("HasSource(broda) = true")
	}
}

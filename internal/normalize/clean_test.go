package normalize

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Mfg", "acme mfg"},
		{"100 Main St.", "100 main st."},
		{"Beta-Werk", "betawerk"},
		{"O'Brien's", "obriens"},
		{"Hauptstr 1", "hauptstr 1"},
		{"Müller GmbH", "muller gmbh"},
		{"Line1\nLine2", "line1 line2"},
		{"a/b:c", "a b c"},
		{"   spaced   out  ", "spaced out"},
		{`"quoted"`, "quoted"},
		{"", Absent},
		{"   ", Absent},
		{"---", Absent},
	}
	for _, c := range cases {
		if got := Clean(c.in); got != c.want {
			t.Errorf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{"Acme Mfg", "Müller GmbH", "", "100 Main St., Suite 2"}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: Clean(x)=%q, Clean(Clean(x))=%q", in, once, twice)
		}
	}
}

// Package normalize implements the text-cleaning function shared by
// gazetteer training and runtime matching. Divergence between the two call
// sites silently degrades recall, so this is the single source of truth
// for both.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Absent is the sentinel returned when a cleaned value would otherwise be
// empty.
const Absent = "n/a"

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean maps a raw field value to its canonical comparison form. Steps
// run in order: transliterate non-ASCII to nearest ASCII, replace
// newlines with spaces, drop '-', '\'', ',', replace '/' and ':' with
// spaces, collapse runs of spaces, strip outer whitespace/quotes,
// lowercase, strip again. An empty result becomes Absent, and Absent itself
// is returned unchanged, so Clean is idempotent.
func Clean(value string) string {
	if value == Absent {
		return Absent
	}

	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}
	folded = toASCII(folded)

	folded = strings.ReplaceAll(folded, "\n", " ")
	folded = strings.ReplaceAll(folded, "\r", " ")
	folded = strings.NewReplacer("-", "", "'", "", ",", "").Replace(folded)
	folded = strings.NewReplacer("/", " ", ":", " ").Replace(folded)
	folded = collapseSpaces(folded)
	folded = strings.Trim(folded, " \t\"'")
	folded = strings.ToLower(folded)
	folded = strings.TrimSpace(folded)

	if folded == "" {
		return Absent
	}
	return folded
}

// toASCII drops any remaining non-ASCII runes left over after NFD
// decomposition (e.g. ligatures or symbols with no combining-mark form).
func toASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

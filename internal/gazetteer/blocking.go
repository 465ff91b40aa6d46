package gazetteer

import (
	"regexp"
	"strings"
)

// blockIndex maps predicate keys (a shared name token, or a shared digit
// run from the address) to the canonical IDs that produced them.
// Candidate generation for a messy record is the union of canonical IDs
// sharing at least one predicate key.
type blockIndex struct {
	byToken map[string][]string
	byDigit map[string][]string
}

var digitRun = regexp.MustCompile(`\d+`)

func newBlockIndex() *blockIndex {
	return &blockIndex{byToken: map[string][]string{}, byDigit: map[string][]string{}}
}

func (b *blockIndex) build(canonical map[string]Fields) {
	for id, fields := range canonical {
		for _, tok := range nameTokens(fields["name"]) {
			b.byToken[tok] = append(b.byToken[tok], id)
		}
		for _, d := range digitRun.FindAllString(fields["address"], -1) {
			b.byDigit[d] = append(b.byDigit[d], id)
		}
	}
}

// empty reports whether indexing produced no predicates at all, meaning
// no candidate block could ever be generated for any messy record.
func (b *blockIndex) empty() bool {
	return len(b.byToken) == 0 && len(b.byDigit) == 0
}

// candidates returns the deduplicated union of canonical IDs sharing at
// least one blocking predicate with fields.
func (b *blockIndex) candidates(fields Fields) []string {
	seen := map[string]bool{}
	var out []string
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}

	for _, tok := range nameTokens(fields["name"]) {
		add(b.byToken[tok])
	}
	for _, d := range digitRun.FindAllString(fields["address"], -1) {
		add(b.byDigit[d])
	}
	return out
}

func nameTokens(name string) []string {
	fields := strings.Fields(name)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

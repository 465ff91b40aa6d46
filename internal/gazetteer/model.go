// Package gazetteer builds, persists, and reloads the probabilistic
// record-linkage model used by the Matcher. It is deliberately hidden
// behind the Model capability interface (§9 re-architecture guidance) so
// the Matcher never depends on the concrete linkage algorithm.
package gazetteer

import (
	"io"
	"math"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
)

// ErrBlockingFailure is returned by Match when no blocking predicate can
// generate any candidate pairs for the supplied canonical set — a
// recoverable model-inadequacy signal, not a crash.
var ErrBlockingFailure = eris.New("gazetteer: model cannot block")

// Fields is one record's cleaned, comparable field values, keyed by field
// name ("country", "name", "address").
type Fields map[string]string

// Candidate is one scored match for a messy record.
type Candidate struct {
	CanonicalID string
	Score       float64
}

// Model is the capability interface the Matcher depends on. The
// implementation may be swapped without the Matcher caring how
// comparisons, blocking, or training are done internally.
type Model interface {
	// Threshold computes a recommended score cutoff for the given
	// recall/precision tradeoff. Retained for telemetry; the Matcher
	// enforces its own configured gazetteer_threshold instead (§9 open
	// question).
	Threshold(messy map[string]Fields, recallWeight float64) float64

	// Index builds the blocking structures over the canonical set. Must
	// be called after Load or after a fresh Fit, per §4.5.
	Index(canonical map[string]Fields)

	// Match scores every messy record against its candidate blocks at
	// or above threshold, returning each record's candidates in blocking
	// order; they are not sorted by score. Returns ErrBlockingFailure if
	// indexing produced no blocks.
	Match(messy map[string]Fields, threshold float64) (map[string][]Candidate, error)

	// Save persists the fitted field weights so a future run can load
	// this model as static instead of retraining.
	Save(w io.Writer) error
}

var fieldNames = []string{"country", "name", "address"}

// fieldModel is a logistic-regression record-linkage model over three
// field comparators: exact match for country, normalized Levenshtein
// similarity for name and address.
type fieldModel struct {
	weights   map[string]float64
	bias      float64
	index     *blockIndex
	canonical map[string]Fields
}

func newFieldModel() *fieldModel {
	return &fieldModel{
		weights: map[string]float64{"country": 1.5, "name": 2.0, "address": 2.0},
		bias:    -2.5,
	}
}

func compareFields(a, b Fields) map[string]float64 {
	out := make(map[string]float64, len(fieldNames))
	for _, f := range fieldNames {
		va, vb := a[f], b[f]
		if f == "country" {
			out[f] = exactScore(va, vb)
			continue
		}
		out[f] = similarityScore(va, vb)
	}
	return out
}

func exactScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return 0
}

// similarityScore normalizes Levenshtein edit distance into a [0,1]
// similarity, matching the "string similarity" field type named in §4.5.
func similarityScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// score runs the logistic model over one pair's field comparisons,
// returning a probability in (0,1).
func (m *fieldModel) score(comparisons map[string]float64) float64 {
	z := m.bias
	for f, w := range m.weights {
		z += w * comparisons[f]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

package gazetteer

// Index builds the blocking structures over the canonical set. Required
// after Load and after a fresh Fit, per §4.5.
func (m *fieldModel) Index(canonical map[string]Fields) {
	idx := newBlockIndex()
	idx.build(canonical)
	m.index = idx
	m.canonical = canonical
}

// Threshold computes a recommended score cutoff from recallWeight. Higher
// recall weight biases toward a lower cutoff (favor recall over
// precision); this is recorded for telemetry only — the Matcher enforces
// its own configured gazetteer_threshold (§9 open question).
func (m *fieldModel) Threshold(messy map[string]Fields, recallWeight float64) float64 {
	if recallWeight <= 0 {
		recallWeight = 1
	}
	return 1.0 / (1.0 + recallWeight)
}

// Match scores every messy record against its candidate blocks at or
// above threshold. Returns ErrBlockingFailure if Index produced no
// predicates for the canonical set, since no messy record could ever be
// scored against anything.
func (m *fieldModel) Match(messy map[string]Fields, threshold float64) (map[string][]Candidate, error) {
	if m.index == nil || m.index.empty() {
		return nil, ErrBlockingFailure
	}

	out := make(map[string][]Candidate, len(messy))
	for id, fields := range messy {
		candIDs := m.index.candidates(fields)
		if len(candIDs) == 0 {
			continue
		}

		var scored []Candidate
		for _, cid := range candIDs {
			cf := m.canonical[cid]
			comparisons := compareFields(fields, cf)
			score := m.score(comparisons)
			if score >= threshold {
				scored = append(scored, Candidate{CanonicalID: cid, Score: score})
			}
		}
		if len(scored) == 0 {
			continue
		}

		// Emitted in block-candidate order, not score order — the
		// Materializer's first-candidate-promotion quirk (§4.7/§9)
		// depends on this list never being re-sorted.
		out[id] = scored
	}

	return out, nil
}

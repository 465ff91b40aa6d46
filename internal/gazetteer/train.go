package gazetteer

// TrainingPair is one labeled example read from the training file: two
// records' cleaned fields and whether they denote the same real-world
// facility.
type TrainingPair struct {
	A, B  Fields
	Match bool
}

const (
	learningRate = 0.1
	epochs       = 200
)

// fit runs batch gradient descent over the labeled training pairs,
// updating the field weights and bias in place.
func (m *fieldModel) fit(pairs []TrainingPair) {
	if len(pairs) == 0 {
		return
	}

	for epoch := 0; epoch < epochs; epoch++ {
		gradWeights := map[string]float64{}
		gradBias := 0.0

		for _, p := range pairs {
			comparisons := compareFields(p.A, p.B)
			pred := m.score(comparisons)
			label := 0.0
			if p.Match {
				label = 1.0
			}
			errTerm := pred - label

			for _, f := range fieldNames {
				gradWeights[f] += errTerm * comparisons[f]
			}
			gradBias += errTerm
		}

		n := float64(len(pairs))
		for _, f := range fieldNames {
			m.weights[f] -= learningRate * gradWeights[f] / n
		}
		m.bias -= learningRate * gradBias / n
	}
}

// cleanupTraining releases training-only state after a fresh fit. The
// caller must re-run Index afterward (§4.5).
func (m *fieldModel) cleanupTraining() {
	m.index = nil
	m.canonical = nil
}

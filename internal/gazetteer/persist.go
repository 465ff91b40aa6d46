package gazetteer

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

type modelFile struct {
	Weights map[string]float64 `json:"weights"`
	Bias    float64            `json:"bias"`
}

// Save writes the fitted field weights as JSON, the opaque binary
// named by §6's "persisted model file" contract.
func (m *fieldModel) Save(w io.Writer) error {
	mf := modelFile{Weights: m.weights, Bias: m.bias}
	if err := json.NewEncoder(w).Encode(mf); err != nil {
		return eris.Wrap(err, "gazetteer: save model")
	}
	return nil
}

// LoadModel reads a previously saved model and returns it as a static
// model: no further Fit call is permitted, only Index + Match. Presence
// of this file is what signals "use static, do not retrain" in §4.5.
func LoadModel(r io.Reader) (Model, error) {
	var mf modelFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, eris.Wrap(err, "gazetteer: load model")
	}
	return &fieldModel{weights: mf.Weights, bias: mf.Bias}, nil
}

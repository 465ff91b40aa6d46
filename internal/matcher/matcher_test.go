package matcher

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilityregistry/linker/internal/gazetteer"
)

type fakeStore struct {
	model gazetteer.Model
	err   error
}

func (f *fakeStore) Load(messy, canonical map[string]gazetteer.Fields) (gazetteer.Model, error) {
	return f.model, f.err
}

type fakeModel struct {
	candidates map[string][]gazetteer.Candidate
	matchErr   error
}

func (f *fakeModel) Threshold(messy map[string]gazetteer.Fields, recallWeight float64) float64 {
	return 0.5
}
func (f *fakeModel) Index(canonical map[string]gazetteer.Fields) {}
func (f *fakeModel) Match(messy map[string]gazetteer.Fields, threshold float64) (map[string][]gazetteer.Candidate, error) {
	return f.candidates, f.matchErr
}
func (f *fakeModel) Save(w io.Writer) error { return nil }

func TestMatchEmptyCanonical(t *testing.T) {
	messy := map[string]gazetteer.Fields{"i1": {"name": "acme"}}
	out, err := Match(&fakeStore{}, messy, nil, Config{})
	require.NoError(t, err)
	assert.True(t, out.NoGazetteerMatches)
	assert.Equal(t, []string{"i1"}, out.ProcessedListItemIDs)
}

func TestMatchEmptyMessy(t *testing.T) {
	canonical := map[string]gazetteer.Fields{"c1": {"name": "acme"}}
	out, err := Match(&fakeStore{}, nil, canonical, Config{})
	require.NoError(t, err)
	assert.True(t, out.NoGeocodedItems)
}

func TestMatchBlockingFailureDegrades(t *testing.T) {
	store := &fakeStore{model: &fakeModel{matchErr: gazetteer.ErrBlockingFailure}}
	messy := map[string]gazetteer.Fields{"i1": {"name": "acme"}}
	canonical := map[string]gazetteer.Fields{"c1": {"name": "acme"}}

	out, err := Match(store, messy, canonical, Config{GazetteerThreshold: 0.5})
	require.NoError(t, err)
	assert.True(t, out.NoGazetteerMatches)
}

func TestMatchReturnsCandidates(t *testing.T) {
	candidates := map[string][]gazetteer.Candidate{"i1": {{CanonicalID: "c1", Score: 0.92}}}
	store := &fakeStore{model: &fakeModel{candidates: candidates}}
	messy := map[string]gazetteer.Fields{"i1": {"name": "acme"}}
	canonical := map[string]gazetteer.Fields{"c1": {"name": "acme"}}

	out, err := Match(store, messy, canonical, Config{GazetteerThreshold: 0.5, RecallWeight: 1})
	require.NoError(t, err)
	assert.False(t, out.NoGazetteerMatches)
	assert.False(t, out.NoGeocodedItems)
	require.Contains(t, out.ItemMatches, "i1")
	assert.Equal(t, 0.92, out.ItemMatches["i1"][0].Score)
	assert.Equal(t, 0.5, out.Results["computed_threshold"])
}

package gazetteer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T) *fieldModel {
	t.Helper()
	m := newFieldModel()
	pairs := []TrainingPair{
		{A: Fields{"country": "de", "name": "beta werk", "address": "hauptstr 1"}, B: Fields{"country": "de", "name": "beta werk", "address": "hauptstr 1"}, Match: true},
		{A: Fields{"country": "de", "name": "beta werk", "address": "hauptstr 1"}, B: Fields{"country": "us", "name": "acme mfg", "address": "100 main st"}, Match: false},
	}
	m.fit(pairs)
	return m
}

func TestMatchRequiresIndex(t *testing.T) {
	m := trainedModel(t)
	_, err := m.Match(map[string]Fields{"1": {"name": "beta werk"}}, 0.5)
	require.ErrorIs(t, err, ErrBlockingFailure)
}

func TestMatchFindsCandidate(t *testing.T) {
	m := trainedModel(t)
	m.Index(map[string]Fields{
		"c1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"},
	})

	result, err := m.Match(map[string]Fields{
		"i1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"},
	}, 0.5)
	require.NoError(t, err)
	require.Contains(t, result, "i1")
	assert.Equal(t, "c1", result["i1"][0].CanonicalID)
	assert.Greater(t, result["i1"][0].Score, 0.5)
}

func TestMatchNoBlockNoCandidate(t *testing.T) {
	m := trainedModel(t)
	m.Index(map[string]Fields{
		"c1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"},
	})

	result, err := m.Match(map[string]Fields{
		"i1": {"country": "us", "name": "unrelated company", "address": "999 nowhere ave"},
	}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, result["i1"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := trainedModel(t)
	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	loaded, err := LoadModel(&buf)
	require.NoError(t, err)
	loaded.Index(map[string]Fields{"c1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"}})

	result, err := loaded.Match(map[string]Fields{"i1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"}}, 0.1)
	require.NoError(t, err)
	assert.Contains(t, result, "i1")
}

func TestStoreFitFreshPersists(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	store := NewStore(modelPath, "", 42)

	canonical := map[string]Fields{"c1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"}}
	messy := map[string]Fields{"i1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"}}

	model, err := store.Load(messy, canonical)
	require.NoError(t, err)
	assert.NotNil(t, model)

	_, statErr := os.Stat(modelPath)
	assert.NoError(t, statErr, "model file should be persisted after a fresh fit")
}

func TestStoreLoadsStaticWhenPresent(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")

	m := trainedModel(t)
	f, err := os.Create(modelPath)
	require.NoError(t, err)
	require.NoError(t, m.Save(f))
	require.NoError(t, f.Close())

	store := NewStore(modelPath, "", 1)
	canonical := map[string]Fields{"c1": {"country": "de", "name": "beta werk", "address": "hauptstr 1"}}
	model, err := store.Load(nil, canonical)
	require.NoError(t, err)
	require.NotNil(t, model)
}

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilityregistry/linker/internal/facility"
	"github.com/facilityregistry/linker/internal/gazetteer"
	"github.com/facilityregistry/linker/internal/geocoder"
	"github.com/facilityregistry/linker/internal/matcher"
	"github.com/facilityregistry/linker/pkg/geocode"
)

type fakeStore struct {
	items      map[string]*facility.FacilityListItem
	facilities []*facility.Facility
	matches    []*facility.FacilityMatch
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]*facility.FacilityListItem{}}
}

func (f *fakeStore) CreateList(ctx context.Context, list *facility.FacilityList) error { return nil }
func (f *fakeStore) InsertItems(ctx context.Context, items []*facility.FacilityListItem) error {
	for _, it := range items {
		f.items[it.ID] = it
	}
	return nil
}
func (f *fakeStore) UpdateItem(ctx context.Context, item *facility.FacilityListItem) error {
	f.items[item.ID] = item
	return nil
}
func (f *fakeStore) GetItemsByStatus(ctx context.Context, listID string, statuses ...facility.ItemStatus) ([]*facility.FacilityListItem, error) {
	return nil, nil
}
func (f *fakeStore) GetAllCanonical(ctx context.Context) ([]*facility.Facility, error) {
	return f.facilities, nil
}
func (f *fakeStore) CreateFacility(ctx context.Context, fac *facility.Facility) error {
	f.facilities = append(f.facilities, fac)
	return nil
}
func (f *fakeStore) CreateMatch(ctx context.Context, m *facility.FacilityMatch) error {
	f.matches = append(f.matches, m)
	return nil
}
func (f *fakeStore) UpdateMatchStatus(ctx context.Context, matchID string, status facility.MatchStatus) error {
	return nil
}
func (f *fakeStore) WithTx(ctx context.Context, fn func(tx facility.Store) error) error {
	return fn(f)
}

type fakeGeocodeClient struct{}

func (fakeGeocodeClient) Geocode(ctx context.Context, addr geocode.AddressInput) (*geocode.Result, error) {
	return &geocode.Result{Matched: true, ResultCount: 1, Latitude: 38.9, Longitude: -77.0, Address: addr.Address}, nil
}

type emptyGazetteerStore struct{}

func (emptyGazetteerStore) Load(messy, canonical map[string]gazetteer.Fields) (gazetteer.Model, error) {
	return nil, nil
}

func TestRunEmptyRegistrySeedsFacilities(t *testing.T) {
	store := newFakeStore()
	runner := &Runner{
		Store:     store,
		Geocoder:  geocoder.New(fakeGeocodeClient{}, time.Second),
		Gazetteer: emptyGazetteerStore{},
		Cfg: Config{
			Concurrency: 2,
			Match:       matcher.Config{AutomaticThreshold: 0.8, GazetteerThreshold: 0.5, RecallWeight: 1},
		},
	}

	header := "country,name,address"
	rows := [][]string{
		{"US", "Acme Mfg", "100 Main St"},
	}

	err := runner.Run(context.Background(), "list-1", header, rows)
	require.NoError(t, err)

	require.Len(t, store.facilities, 1)
	require.Len(t, store.matches, 1)
	assert.Equal(t, facility.MatchTypeNoGazetteerMatch, store.matches[0].MatchType)

	for _, it := range store.items {
		assert.Equal(t, facility.StatusMatched, it.Status)
	}
}

package facility

import (
	"context"
)

// Store is the persistence interface the pipeline needs: list/item
// ingestion, canonical-facility lookup and creation, and match
// bookkeeping. The Materializer additionally needs WithTx to run its
// cascade inside one atomic unit.
type Store interface {
	CreateList(ctx context.Context, list *FacilityList) error
	InsertItems(ctx context.Context, items []*FacilityListItem) error
	UpdateItem(ctx context.Context, item *FacilityListItem) error
	GetItemsByStatus(ctx context.Context, listID string, statuses ...ItemStatus) ([]*FacilityListItem, error)

	GetAllCanonical(ctx context.Context) ([]*Facility, error)
	CreateFacility(ctx context.Context, f *Facility) error

	CreateMatch(ctx context.Context, m *FacilityMatch) error
	UpdateMatchStatus(ctx context.Context, matchID string, status MatchStatus) error

	// WithTx runs fn inside one transaction, committing on success and
	// rolling back on any error or panic, so the Materializer's cascade
	// is the atomic unit-of-work §4.7 requires.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

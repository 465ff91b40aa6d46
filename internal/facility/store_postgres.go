package facility

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/facilityregistry/linker/internal/db"
)

// PostgresStore implements Store with pgx/v5. It is constructed over
// either a *pgxpool.Pool or a pgx.Tx (both satisfy db.Pool), so the same
// type serves as the top-level store and as the transaction-scoped store
// the Materializer's WithTx callback receives.
type PostgresStore struct {
	conn db.Pool
}

// NewPostgresStore returns a Store backed by conn, typically a
// *pgxpool.Pool.
func NewPostgresStore(conn db.Pool) *PostgresStore {
	return &PostgresStore{conn: conn}
}

func (s *PostgresStore) CreateList(ctx context.Context, list *FacilityList) error {
	_, err := s.conn.Exec(ctx,
		`INSERT INTO facility_list (id, header, contributor_id, created_at) VALUES ($1, $2, $3, $4)`,
		list.ID, list.Header, list.ContribID, list.CreatedAt)
	if err != nil {
		return eris.Wrap(err, "facility: create list")
	}
	return nil
}

func (s *PostgresStore) InsertItems(ctx context.Context, items []*FacilityListItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, len(items))
	for i, it := range items {
		results, err := json.Marshal(it.ProcessingResults)
		if err != nil {
			return eris.Wrap(err, "facility: marshal processing results")
		}
		rows[i] = []any{it.ID, it.ListID, it.RawData, string(it.Status), results}
	}

	_, err := db.CopyFrom(ctx, s.conn, "facility_list_item",
		[]string{"id", "list_id", "raw_data", "status", "processing_results"}, rows)
	if err != nil {
		return eris.Wrap(err, "facility: insert items")
	}
	return nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *FacilityListItem) error {
	results, err := json.Marshal(item.ProcessingResults)
	if err != nil {
		return eris.Wrap(err, "facility: marshal processing results")
	}

	var point any
	if item.GeocodedPoint != nil {
		point = json.RawMessage(mustMarshal(item.GeocodedPoint))
	}

	_, err = s.conn.Exec(ctx,
		`UPDATE facility_list_item SET country_code = $1, name = $2, address = $3,
		 geocoded_point = $4, geocoded_address = $5, status = $6, facility_id = $7,
		 processing_results = $8 WHERE id = $9`,
		item.CountryCode, item.Name, item.Address, point, item.GeocodedAddress,
		string(item.Status), nullIfEmpty(item.FacilityID), results, item.ID)
	if err != nil {
		return eris.Wrap(err, "facility: update item")
	}
	return nil
}

func (s *PostgresStore) GetItemsByStatus(ctx context.Context, listID string, statuses ...ItemStatus) ([]*FacilityListItem, error) {
	strStatuses := make([]string, len(statuses))
	for i, st := range statuses {
		strStatuses[i] = string(st)
	}

	rows, err := s.conn.Query(ctx,
		`SELECT id, list_id, raw_data, country_code, name, address, geocoded_point, geocoded_address,
		 status, facility_id, processing_results
		 FROM facility_list_item WHERE list_id = $1 AND status = ANY($2)`,
		listID, strStatuses)
	if err != nil {
		return nil, eris.Wrap(err, "facility: get items by status")
	}
	defer rows.Close()

	var out []*FacilityListItem
	for rows.Next() {
		it := &FacilityListItem{}
		var status string
		var facilityID *string
		if err := rows.Scan(&it.ID, &it.ListID, &it.RawData, &it.CountryCode, &it.Name,
			&it.Address, &it.GeocodedPoint, &it.GeocodedAddress, &status, &facilityID,
			&it.ProcessingResults); err != nil {
			return nil, eris.Wrap(err, "facility: scan item")
		}
		it.Status = ItemStatus(status)
		if facilityID != nil {
			it.FacilityID = *facilityID
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetAllCanonical(ctx context.Context) ([]*Facility, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT id, name, address, country_code, location, created_from_item_id FROM facility`)
	if err != nil {
		return nil, eris.Wrap(err, "facility: get all canonical")
	}
	defer rows.Close()

	var out []*Facility
	for rows.Next() {
		f := &Facility{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Address, &f.CountryCode, &f.Location, &f.CreatedFromItem); err != nil {
			return nil, eris.Wrap(err, "facility: scan canonical")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateFacility(ctx context.Context, f *Facility) error {
	var point any
	if f.Location != nil {
		point = json.RawMessage(mustMarshal(f.Location))
	}

	_, err := s.conn.Exec(ctx,
		`INSERT INTO facility (id, name, address, country_code, location, created_from_item_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.Name, f.Address, f.CountryCode, point, f.CreatedFromItem)
	if err != nil {
		return eris.Wrap(err, "facility: create facility")
	}
	return nil
}

func (s *PostgresStore) CreateMatch(ctx context.Context, m *FacilityMatch) error {
	results, err := json.Marshal(m.Results)
	if err != nil {
		return eris.Wrap(err, "facility: marshal match results")
	}

	_, err = s.conn.Exec(ctx,
		`INSERT INTO facility_match (id, list_item_id, facility_id, confidence, status, match_type, results)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.ListItemID, m.FacilityID, m.Confidence, string(m.Status), m.MatchType, results)
	if err != nil {
		return eris.Wrap(err, "facility: create match")
	}
	return nil
}

func (s *PostgresStore) UpdateMatchStatus(ctx context.Context, matchID string, status MatchStatus) error {
	_, err := s.conn.Exec(ctx, `UPDATE facility_match SET status = $1 WHERE id = $2`, string(status), matchID)
	if err != nil {
		return eris.Wrap(err, "facility: update match status")
	}
	return nil
}

// WithTx runs fn inside one transaction. Any error returned from fn, or a
// panic propagated from it, rolls the transaction back; otherwise it
// commits. This is the Materializer's atomic unit-of-work.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "facility: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txStore := &PostgresStore{conn: tx}
	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "facility: commit tx")
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

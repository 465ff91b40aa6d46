package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// PoolConfig bounds a pgxpool.Pool's connection count.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Connect opens a pgxpool.Pool against connString, applies cfg, pings it,
// and runs the facility schema migration.
func Connect(ctx context.Context, connString string, cfg *PoolConfig) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "db: parse connection string")
	}
	if cfg != nil {
		if cfg.MaxConns > 0 {
			pgCfg.MaxConns = cfg.MaxConns
		}
		if cfg.MinConns > 0 {
			pgCfg.MinConns = cfg.MinConns
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, eris.Wrap(err, "db: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping")
	}

	if _, err := pool.Exec(ctx, facilitySchema); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: run migration")
	}

	return pool, nil
}

const facilitySchema = `
CREATE TABLE IF NOT EXISTS facility_list (
	id             TEXT PRIMARY KEY,
	header         TEXT NOT NULL,
	contributor_id TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS facility_list_item (
	id                  TEXT PRIMARY KEY,
	list_id             TEXT NOT NULL REFERENCES facility_list(id),
	raw_data            TEXT NOT NULL,
	country_code        TEXT NOT NULL DEFAULT '',
	name                TEXT NOT NULL DEFAULT '',
	address             TEXT NOT NULL DEFAULT '',
	geocoded_point      JSONB,
	geocoded_address    TEXT NOT NULL DEFAULT '',
	status              TEXT NOT NULL,
	facility_id         TEXT,
	processing_results  JSONB
);

CREATE TABLE IF NOT EXISTS facility (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	address              TEXT NOT NULL,
	country_code         TEXT NOT NULL,
	location             JSONB,
	created_from_item_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS facility_match (
	id            TEXT PRIMARY KEY,
	list_item_id  TEXT NOT NULL REFERENCES facility_list_item(id),
	facility_id   TEXT NOT NULL REFERENCES facility(id),
	confidence    DOUBLE PRECISION NOT NULL,
	status        TEXT NOT NULL,
	match_type    TEXT NOT NULL DEFAULT '',
	results       JSONB
);
`

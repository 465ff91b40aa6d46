package main

import (
	"context"

	"github.com/facilityregistry/linker/internal/db"
	"github.com/facilityregistry/linker/internal/facility"
)

func initStore(ctx context.Context) (*facility.PostgresStore, func(), error) {
	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL, &db.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, nil, err
	}
	return facility.NewPostgresStore(pool), pool.Close, nil
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/abzal/photovault/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultDBTimeout = 5 * time.Second

// NewPostgresPool connects to PostgreSQL using pgx.
func NewPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultDBTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the catalog tables when they do not exist yet. The
// primary key on content_hashes.hash is the uniqueness constraint the
// ingestion pipeline relies on for dedup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultDBTimeout)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS assets (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			make TEXT,
			model TEXT,
			date_time_original BIGINT,
			exposure_time DOUBLE PRECISION,
			f_number DOUBLE PRECISION,
			iso_speed_ratings INTEGER,
			focal_length_35mm INTEGER,
			lens_model TEXT,
			exposure_bias DOUBLE PRECISION,
			software TEXT,
			exif_all JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS annotations (
			asset_id UUID PRIMARY KEY,
			title TEXT,
			description TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS content_hashes (
			hash TEXT PRIMARY KEY,
			asset_id UUID NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

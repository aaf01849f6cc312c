package annotation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

// Repository provides access to annotation rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new annotation repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get fetches the annotation for an asset.
func (r *Repository) Get(ctx context.Context, assetID uuid.UUID) (Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `SELECT asset_id, title, description FROM annotations WHERE asset_id = $1;`

	var ann Annotation
	err := r.pool.QueryRow(ctx, query, assetID).Scan(&ann.AssetID, &ann.Title, &ann.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Annotation{}, ErrAnnotationNotFound
		}
		return Annotation{}, fmt.Errorf("get annotation: %w", err)
	}
	return ann, nil
}

// Upsert fully replaces the annotation for an asset, creating the row when
// absent.
func (r *Repository) Upsert(ctx context.Context, assetID uuid.UUID, title, description string) (Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO annotations (asset_id, title, description)
VALUES ($1, $2, $3)
ON CONFLICT (asset_id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
RETURNING asset_id, title, description;`

	var ann Annotation
	err := r.pool.QueryRow(ctx, query, assetID, title, description).Scan(&ann.AssetID, &ann.Title, &ann.Description)
	if err != nil {
		return Annotation{}, fmt.Errorf("upsert annotation: %w", err)
	}
	return ann, nil
}

// ApplyPatch updates only the supplied fields as one well-defined partial
// update; nil fields keep their stored values.
func (r *Repository) ApplyPatch(ctx context.Context, assetID uuid.UUID, patch Patch) (Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
UPDATE annotations
SET title = COALESCE($2, title), description = COALESCE($3, description)
WHERE asset_id = $1
RETURNING asset_id, title, description;`

	var ann Annotation
	err := r.pool.QueryRow(ctx, query, assetID, patch.Title, patch.Description).Scan(&ann.AssetID, &ann.Title, &ann.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Annotation{}, ErrAnnotationNotFound
		}
		return Annotation{}, fmt.Errorf("patch annotation: %w", err)
	}
	return ann, nil
}

// DeleteForAsset removes the annotation row for an asset. A missing row is
// not an error; annotations have an independent lifecycle.
func (r *Repository) DeleteForAsset(ctx context.Context, assetID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM annotations WHERE asset_id = $1;`, assetID); err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	return nil
}

package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const recordColumns = `id, filename, make, model, date_time_original, exposure_time, f_number, iso_speed_ratings, focal_length_35mm, lens_model, exposure_bias, software, exif_all, created_at`

// Repository provides access to the catalog table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a catalog row for a newly ingested asset.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO assets (id, filename, make, model, date_time_original, exposure_time, f_number, iso_speed_ratings, focal_length_35mm, lens_model, exposure_bias, software, exif_all)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + recordColumns + `;`

	row := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.Filename,
		rec.Make,
		rec.Model,
		rec.DateTimeOriginal,
		rec.ExposureTime,
		rec.FNumber,
		rec.ISOSpeedRatings,
		rec.FocalLength35mm,
		rec.LensModel,
		rec.ExposureBias,
		rec.Software,
		rec.ExifAll,
	)

	stored, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("create catalog row: %w", err)
	}
	return stored, nil
}

// Get fetches a single catalog row.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `SELECT ` + recordColumns + ` FROM assets WHERE id = $1;`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return Record{}, ErrAssetNotFound
		}
		return Record{}, fmt.Errorf("get catalog row: %w", err)
	}
	return rec, nil
}

// List returns every catalog row ordered by the given sort key. The key must
// already be validated through SortColumn; raw request input never reaches
// this method.
func (r *Repository) List(ctx context.Context, sortKey string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM assets ORDER BY %s;`, recordColumns, SortColumn(sortKey))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog rows: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return records, nil
}

// Delete removes a catalog row and returns the deleted record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `DELETE FROM assets WHERE id = $1 RETURNING ` + recordColumns + `;`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return Record{}, ErrAssetNotFound
		}
		return Record{}, fmt.Errorf("delete catalog row: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.Filename,
		&rec.Make,
		&rec.Model,
		&rec.DateTimeOriginal,
		&rec.ExposureTime,
		&rec.FNumber,
		&rec.ISOSpeedRatings,
		&rec.FocalLength35mm,
		&rec.LensModel,
		&rec.ExposureBias,
		&rec.Software,
		&rec.ExifAll,
		&rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

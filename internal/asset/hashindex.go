package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// hashCacheTTL bounds how long a hash -> asset id mapping may be served from
// Redis before falling through to Postgres again.
const hashCacheTTL = 5 * time.Minute

// HashIndex maps content hashes to asset ids. Postgres is the source of
// truth; Redis is a read-through lookup cache and never answers inserts.
type HashIndex struct {
	pool  *pgxpool.Pool
	cache *redis.Client
}

// NewHashIndex builds a hash index. cache may be nil to run uncached.
func NewHashIndex(pool *pgxpool.Pool, cache *redis.Client) *HashIndex {
	return &HashIndex{pool: pool, cache: cache}
}

// Lookup resolves a content hash to the asset id it maps to, if any.
func (h *HashIndex) Lookup(ctx context.Context, hash string) (uuid.UUID, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, cacheKey(hash)).Result(); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				return id, true, nil
			}
		}
	}

	var id uuid.UUID
	err := h.pool.QueryRow(ctx, `SELECT asset_id FROM content_hashes WHERE hash = $1;`, hash).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("lookup content hash: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, cacheKey(hash), id.String(), hashCacheTTL).Err()
	}
	return id, true, nil
}

// Reserve inserts the hash -> id mapping. The primary key on hash makes the
// insert the linearization point for concurrent uploads of identical content:
// exactly one caller reserves, the rest observe the winner's id. Returns the
// id now mapped to the hash and whether this call made the reservation.
func (h *HashIndex) Reserve(ctx context.Context, hash string, id uuid.UUID) (uuid.UUID, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	tag, err := h.pool.Exec(ctx,
		`INSERT INTO content_hashes (hash, asset_id) VALUES ($1, $2) ON CONFLICT (hash) DO NOTHING;`,
		hash, id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("reserve content hash: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return id, true, nil
	}

	var existing uuid.UUID
	err = h.pool.QueryRow(ctx, `SELECT asset_id FROM content_hashes WHERE hash = $1;`, hash).Scan(&existing)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("resolve conflicting hash: %w", err)
	}
	return existing, false, nil
}

// Remove deletes every hash entry for the asset and invalidates the cache.
func (h *HashIndex) Remove(ctx context.Context, assetID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rows, err := h.pool.Query(ctx, `DELETE FROM content_hashes WHERE asset_id = $1 RETURNING hash;`, assetID)
	if err != nil {
		return fmt.Errorf("remove content hashes: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return fmt.Errorf("scan removed hash: %w", err)
		}
		hashes = append(hashes, hash)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate removed hashes: %w", err)
	}

	if h.cache != nil {
		for _, hash := range hashes {
			_ = h.cache.Del(ctx, cacheKey(hash)).Err()
		}
	}
	return nil
}

func cacheKey(hash string) string {
	return "hash:" + hash
}

package asset

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/abzal/photovault/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type catalog interface {
	Create(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context, sortKey string) ([]Record, error)
	Delete(ctx context.Context, id uuid.UUID) (Record, error)
}

type hashIndex interface {
	Lookup(ctx context.Context, hash string) (uuid.UUID, bool, error)
	Reserve(ctx context.Context, hash string, id uuid.UUID) (uuid.UUID, bool, error)
	Remove(ctx context.Context, assetID uuid.UUID) error
}

type objectStore interface {
	PutOriginal(ctx context.Context, name string, data []byte, contentType string) error
	PutThumbnail(ctx context.Context, name string, data []byte, contentType string) error
	GetOriginal(ctx context.Context, name string) ([]byte, error)
	GetThumbnail(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

// imageCodec is the decode/resize capability the pipeline depends on.
type imageCodec interface {
	Decode(data []byte) (image.Image, string, error)
	ExtractTags(data []byte) map[string]string
	Thumbnail(img image.Image, format string) ([]byte, error)
}

type annotationStore interface {
	DeleteForAsset(ctx context.Context, id uuid.UUID) error
}

// Service orchestrates the ingestion pipeline and the catalog read paths.
type Service struct {
	repo          catalog
	hashes        hashIndex
	store         objectStore
	codec         imageCodec
	annotations   annotationStore
	maxUploadSize int64
	log           *zap.Logger
}

// NewService constructs an asset service.
func NewService(repo catalog, hashes hashIndex, store objectStore, codec imageCodec, annotations annotationStore, maxUploadSize int64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		hashes:        hashes,
		store:         store,
		codec:         codec,
		annotations:   annotations,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

// Ingest runs the full pipeline for one upload: validate extension, dedup
// against the hash index, reserve an identity, decode, normalize metadata,
// persist both byte tiers, and insert the catalog row. The returned record is
// re-read from the catalog so the caller observes exactly what was stored.
//
// clientHash is an untrusted, optional pre-check: a match short-circuits the
// upload, but only the server-computed hash decides the dedup outcome.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte, clientHash string) (Record, error) {
	ext, err := validateExtension(filename)
	if err != nil {
		return Record{}, err
	}

	if s.maxUploadSize > 0 && int64(len(data)) > s.maxUploadSize {
		return Record{}, ErrFileTooLarge
	}

	if clientHash != "" {
		if existing, found, err := s.hashes.Lookup(ctx, clientHash); err != nil {
			return Record{}, err
		} else if found {
			metrics.RecordDuplicate()
			return Record{}, &DuplicateError{ExistingID: existing}
		}
	}

	sum := sha1.Sum(data)
	hash := hex.EncodeToString(sum[:])

	if existing, found, err := s.hashes.Lookup(ctx, hash); err != nil {
		return Record{}, err
	} else if found {
		metrics.RecordDuplicate()
		return Record{}, &DuplicateError{ExistingID: existing}
	}

	// Reservation is the linearization point: the unique key on the hash
	// serializes concurrent uploads of identical content before any bytes
	// are written.
	id := uuid.New()
	winner, reserved, err := s.hashes.Reserve(ctx, hash, id)
	if err != nil {
		return Record{}, err
	}
	if !reserved {
		metrics.RecordDuplicate()
		return Record{}, &DuplicateError{ExistingID: winner}
	}

	img, format, err := s.codec.Decode(data)
	if err != nil {
		s.logOrphanedReservation(id, hash, err)
		return Record{}, fmt.Errorf("%w: undecodable image", ErrUnsupportedMedia)
	}

	meta := Normalize(s.codec.ExtractTags(data))

	name := fmt.Sprintf("%s.%s", id, ext)
	contentType := contentTypeFor(ext)

	if err := s.store.PutOriginal(ctx, name, data, contentType); err != nil {
		s.logOrphanedReservation(id, hash, err)
		return Record{}, fmt.Errorf("persist original: %w", err)
	}

	thumb, err := s.codec.Thumbnail(img, format)
	if err != nil {
		s.logOrphanedReservation(id, hash, err)
		return Record{}, fmt.Errorf("derive thumbnail: %w", err)
	}
	if err := s.store.PutThumbnail(ctx, name, thumb, contentType); err != nil {
		s.logOrphanedReservation(id, hash, err)
		return Record{}, fmt.Errorf("persist thumbnail: %w", err)
	}

	rec := Record{
		ID:               id,
		Filename:         name,
		Make:             meta.Make,
		Model:            meta.Model,
		DateTimeOriginal: meta.DateTimeOriginal,
		ExposureTime:     meta.ExposureTime,
		FNumber:          meta.FNumber,
		ISOSpeedRatings:  meta.ISOSpeedRatings,
		FocalLength35mm:  meta.FocalLength35mm,
		LensModel:        meta.LensModel,
		ExposureBias:     meta.ExposureBias,
		Software:         meta.Software,
		ExifAll:          meta.Raw,
	}

	if _, err := s.repo.Create(ctx, rec); err != nil {
		s.logOrphanedReservation(id, hash, err)
		return Record{}, fmt.Errorf("insert catalog row: %w", err)
	}

	metrics.RecordUpload()
	return s.repo.Get(ctx, id)
}

// FetchBytes returns the stored bytes for an asset, either the original or
// the thumbnail tier. A missing thumbnail whose original still exists is
// regenerated and persisted before returning.
func (s *Service) FetchBytes(ctx context.Context, id uuid.UUID, wantThumbnail bool) ([]byte, string, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	contentType := contentTypeFor(extensionOf(rec.Filename))

	if !wantThumbnail {
		data, err := s.store.GetOriginal(ctx, rec.Filename)
		if err != nil {
			if errors.Is(err, ErrObjectNotFound) {
				return nil, "", ErrAssetNotFound
			}
			return nil, "", err
		}
		return data, contentType, nil
	}

	data, err := s.store.GetThumbnail(ctx, rec.Filename)
	if err == nil {
		return data, contentType, nil
	}
	if !errors.Is(err, ErrObjectNotFound) {
		return nil, "", err
	}

	thumb, err := s.regenerateThumbnail(ctx, rec.Filename, contentType)
	if err != nil {
		return nil, "", err
	}
	return thumb, contentType, nil
}

// regenerateThumbnail rebuilds a missing thumbnail from the original. Two
// readers racing here both write equivalent bytes, so the race is benign.
func (s *Service) regenerateThumbnail(ctx context.Context, name, contentType string) ([]byte, error) {
	original, err := s.store.GetOriginal(ctx, name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	img, format, err := s.codec.Decode(original)
	if err != nil {
		return nil, fmt.Errorf("decode original for thumbnail: %w", err)
	}
	thumb, err := s.codec.Thumbnail(img, format)
	if err != nil {
		return nil, fmt.Errorf("derive thumbnail: %w", err)
	}

	if err := s.store.PutThumbnail(ctx, name, thumb, contentType); err != nil {
		s.log.Warn("failed to persist regenerated thumbnail",
			zap.String("object", name), zap.Error(err))
	}
	metrics.RecordThumbnailRegen()
	return thumb, nil
}

// List returns projected catalog rows ordered by the requested sort key.
// Unknown column names are dropped; an unknown sort key falls back to the
// default.
func (s *Service) List(ctx context.Context, columns []string, sortKey string) ([]map[string]any, error) {
	records, err := s.repo.List(ctx, sortKey)
	if err != nil {
		return nil, err
	}

	cols := FilterColumns(columns)
	projected := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		projected = append(projected, rec.Project(cols))
	}
	return projected, nil
}

// GetMetadata returns one projected catalog row.
func (s *Service) GetMetadata(ctx context.Context, id uuid.UUID, columns []string) (map[string]any, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Project(FilterColumns(columns)), nil
}

// Delete removes the catalog row, the annotation row, the hash-index entries,
// and both byte-store files for the asset.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := s.annotations.DeleteForAsset(ctx, id); err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	if err := s.hashes.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete hash entries: %w", err)
	}
	if err := s.store.Delete(ctx, rec.Filename); err != nil {
		return fmt.Errorf("delete stored bytes: %w", err)
	}

	metrics.RecordDelete()
	return nil
}

func (s *Service) logOrphanedReservation(id uuid.UUID, hash string, cause error) {
	// No compensating delete: the reservation stays behind as an accepted
	// inconsistency and is visible in logs for manual reconciliation.
	s.log.Error("ingestion failed after hash reservation",
		zap.String("asset_id", id.String()),
		zap.String("hash", hash),
		zap.Error(cause))
}

func validateExtension(filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", fmt.Errorf("%w: filename has no extension", ErrUnsupportedMedia)
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: .%s", ErrUnsupportedMedia, ext)
}

func extensionOf(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return strings.ToLower(filename[idx+1:])
	}
	return ""
}

func contentTypeFor(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

package annotation

import (
	"context"

	"github.com/google/uuid"
)

type repository interface {
	Get(ctx context.Context, assetID uuid.UUID) (Annotation, error)
	Upsert(ctx context.Context, assetID uuid.UUID, title, description string) (Annotation, error)
	ApplyPatch(ctx context.Context, assetID uuid.UUID, patch Patch) (Annotation, error)
	DeleteForAsset(ctx context.Context, assetID uuid.UUID) error
}

// Service manages annotation lifecycle operations.
type Service struct {
	repo repository
}

// NewService constructs an annotation service.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// Get returns the annotation for an asset.
func (s *Service) Get(ctx context.Context, assetID uuid.UUID) (Annotation, error) {
	return s.repo.Get(ctx, assetID)
}

// Upsert fully replaces the annotation, creating it when absent.
func (s *Service) Upsert(ctx context.Context, assetID uuid.UUID, title, description string) (Annotation, error) {
	return s.repo.Upsert(ctx, assetID, title, description)
}

// ApplyPatch updates only the supplied fields. An empty patch touches no
// rows and returns the stored annotation unchanged.
func (s *Service) ApplyPatch(ctx context.Context, assetID uuid.UUID, patch Patch) (Annotation, error) {
	if patch.IsEmpty() {
		return s.repo.Get(ctx, assetID)
	}
	return s.repo.ApplyPatch(ctx, assetID, patch)
}

// DeleteForAsset removes the annotation row when its asset is deleted.
func (s *Service) DeleteForAsset(ctx context.Context, assetID uuid.UUID) error {
	return s.repo.DeleteForAsset(ctx, assetID)
}

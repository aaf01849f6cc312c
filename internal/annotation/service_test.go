package annotation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUpsertReplacesBothFields(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	id := uuid.New()

	if _, err := service.Upsert(context.Background(), id, "old title", "old description"); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	ann, err := service.Upsert(context.Background(), id, "new title", "")
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if ann.Title == nil || *ann.Title != "new title" {
		t.Fatalf("unexpected title: %v", ann.Title)
	}
	if ann.Description == nil || *ann.Description != "" {
		t.Fatalf("full replace must overwrite description, got %v", ann.Description)
	}
}

func TestApplyPatchUpdatesOnlySuppliedFields(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	id := uuid.New()

	if _, err := service.Upsert(context.Background(), id, "title", "description"); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	newTitle := "patched"
	ann, err := service.ApplyPatch(context.Background(), id, Patch{Title: &newTitle})
	if err != nil {
		t.Fatalf("ApplyPatch returned error: %v", err)
	}
	if ann.Title == nil || *ann.Title != "patched" {
		t.Fatalf("unexpected title: %v", ann.Title)
	}
	if ann.Description == nil || *ann.Description != "description" {
		t.Fatalf("patch must keep unsupplied fields, got %v", ann.Description)
	}
}

func TestApplyPatchWithoutFieldsTouchesNoRows(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	id := uuid.New()

	if _, err := service.Upsert(context.Background(), id, "title", "description"); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	ann, err := service.ApplyPatch(context.Background(), id, Patch{})
	if err != nil {
		t.Fatalf("ApplyPatch returned error: %v", err)
	}
	if repo.patches != 0 {
		t.Fatalf("empty patch must not reach the repository, got %d patches", repo.patches)
	}
	if ann.Title == nil || *ann.Title != "title" {
		t.Fatalf("empty patch must return the stored annotation, got %v", ann.Title)
	}
}

func TestApplyPatchMissingRowReturnsNotFound(t *testing.T) {
	service := NewService(newFakeRepo())

	title := "anything"
	_, err := service.ApplyPatch(context.Background(), uuid.New(), Patch{Title: &title})
	if !errors.Is(err, ErrAnnotationNotFound) {
		t.Fatalf("expected ErrAnnotationNotFound, got %v", err)
	}
}

func TestGetMissingRowReturnsNotFound(t *testing.T) {
	service := NewService(newFakeRepo())

	_, err := service.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrAnnotationNotFound) {
		t.Fatalf("expected ErrAnnotationNotFound, got %v", err)
	}
}

// --- fakes ---

type fakeRepo struct {
	rows    map[uuid.UUID]Annotation
	patches int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]Annotation{}}
}

func (f *fakeRepo) Get(ctx context.Context, assetID uuid.UUID) (Annotation, error) {
	ann, ok := f.rows[assetID]
	if !ok {
		return Annotation{}, ErrAnnotationNotFound
	}
	return ann, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, assetID uuid.UUID, title, description string) (Annotation, error) {
	ann := Annotation{AssetID: assetID, Title: &title, Description: &description}
	f.rows[assetID] = ann
	return ann, nil
}

func (f *fakeRepo) ApplyPatch(ctx context.Context, assetID uuid.UUID, patch Patch) (Annotation, error) {
	f.patches++
	ann, ok := f.rows[assetID]
	if !ok {
		return Annotation{}, ErrAnnotationNotFound
	}
	if patch.Title != nil {
		ann.Title = patch.Title
	}
	if patch.Description != nil {
		ann.Description = patch.Description
	}
	f.rows[assetID] = ann
	return ann, nil
}

func (f *fakeRepo) DeleteForAsset(ctx context.Context, assetID uuid.UUID) error {
	delete(f.rows, assetID)
	return nil
}

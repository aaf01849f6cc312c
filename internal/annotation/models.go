package annotation

import "github.com/google/uuid"

// Annotation is user-supplied free text attached to an asset, independent of
// its capture metadata. Either field may be absent.
type Annotation struct {
	AssetID     uuid.UUID `json:"uuid"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
}

// Patch lists which annotation fields a partial update supplies. Nil means
// "leave unchanged".
type Patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil
}

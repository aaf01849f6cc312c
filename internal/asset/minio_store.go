package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinIOStore keeps originals and thumbnails in two separate buckets under
// identical object names, adapting minio.Client to the objectStore interface.
type MinIOStore struct {
	client     *minio.Client
	originals  string
	thumbnails string
}

// NewMinIOStore constructs an adapter over the two byte namespaces.
func NewMinIOStore(client *minio.Client, originalsBucket, thumbnailsBucket string) *MinIOStore {
	return &MinIOStore{
		client:     client,
		originals:  originalsBucket,
		thumbnails: thumbnailsBucket,
	}
}

// PutOriginal stores the original upload bytes.
func (s *MinIOStore) PutOriginal(ctx context.Context, name string, data []byte, contentType string) error {
	return s.put(ctx, s.originals, name, data, contentType)
}

// PutThumbnail stores the derived thumbnail bytes.
func (s *MinIOStore) PutThumbnail(ctx context.Context, name string, data []byte, contentType string) error {
	return s.put(ctx, s.thumbnails, name, data, contentType)
}

// GetOriginal reads the original bytes, returning ErrObjectNotFound for
// unknown names.
func (s *MinIOStore) GetOriginal(ctx context.Context, name string) ([]byte, error) {
	return s.get(ctx, s.originals, name)
}

// GetThumbnail reads the thumbnail bytes, returning ErrObjectNotFound when
// the thumbnail namespace has no entry for the name.
func (s *MinIOStore) GetThumbnail(ctx context.Context, name string) ([]byte, error) {
	return s.get(ctx, s.thumbnails, name)
}

// Delete removes the object from both namespaces. A missing thumbnail is not
// an error; it may never have been generated.
func (s *MinIOStore) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.originals, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove original: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.thumbnails, name, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return fmt.Errorf("remove thumbnail: %w", err)
		}
	}
	return nil
}

func (s *MinIOStore) put(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("store object: %w", err)
	}
	return nil
}

func (s *MinIOStore) get(ctx context.Context, bucket, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

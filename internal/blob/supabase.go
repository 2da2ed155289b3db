package blob

import (
	"context"
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// supabaseObjects is the part of the Supabase storage client used here.
type supabaseObjects interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	RemoveFile(bucketID string, paths []string) ([]storage_go.FileUploadResponse, error)
}

// SupabaseStorage stores objects in a Supabase Storage bucket.
type SupabaseStorage struct {
	objects supabaseObjects
	bucket  string
}

// NewSupabaseStorage creates storage backed by the project's service key.
func NewSupabaseStorage(projectURL, serviceKey, bucket string) (*SupabaseStorage, error) {
	client, err := supabase.NewClient(projectURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseStorage{objects: client.Storage, bucket: bucket}, nil
}

// Save uploads an object. The supabase client has no context support, so ctx
// is only checked before the call.
func (s *SupabaseStorage) Save(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	upsert := false
	opts := storage_go.FileOptions{Upsert: &upsert}
	if contentType != "" {
		opts.ContentType = &contentType
	}
	if _, err := s.objects.UploadFile(s.bucket, key, r, opts); err != nil {
		return fmt.Errorf("supabase upload failed: %w", err)
	}
	return nil
}

// Remove deletes an object. Supabase ignores keys that do not exist.
func (s *SupabaseStorage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.objects.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("supabase remove failed: %w", err)
	}
	return nil
}

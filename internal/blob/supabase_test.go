package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage_go "github.com/supabase-community/storage-go"
)

type fakeSupabaseObjects struct {
	uploaded    map[string]string
	contentType string
	removed     []string
	err         error
}

func (f *fakeSupabaseObjects) UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	if f.err != nil {
		return storage_go.FileUploadResponse{}, f.err
	}
	b, _ := io.ReadAll(data)
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}
	f.uploaded[bucketID+"/"+relativePath] = string(b)
	if len(fileOptions) > 0 && fileOptions[0].ContentType != nil {
		f.contentType = *fileOptions[0].ContentType
	}
	return storage_go.FileUploadResponse{}, nil
}

func (f *fakeSupabaseObjects) RemoveFile(bucketID string, paths []string) ([]storage_go.FileUploadResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range paths {
		f.removed = append(f.removed, bucketID+"/"+p)
	}
	return nil, nil
}

func TestSupabaseStorage_SaveAndRemove(t *testing.T) {
	fake := &fakeSupabaseObjects{}
	s := &SupabaseStorage{objects: fake, bucket: "site-media"}
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "testimonials/a.webp", strings.NewReader("webp"), 4, "image/webp"))
	assert.Equal(t, "webp", fake.uploaded["site-media/testimonials/a.webp"])
	assert.Equal(t, "image/webp", fake.contentType)

	require.NoError(t, s.Remove(ctx, "testimonials/a.webp"))
	assert.Equal(t, []string{"site-media/testimonials/a.webp"}, fake.removed)
}

func TestSupabaseStorage_Errors(t *testing.T) {
	s := &SupabaseStorage{objects: &fakeSupabaseObjects{err: errors.New("bucket not found")}, bucket: "b"}
	ctx := context.Background()

	assert.ErrorContains(t, s.Save(ctx, "k", strings.NewReader("x"), 1, ""), "bucket not found")
	assert.ErrorContains(t, s.Remove(ctx, "k"), "bucket not found")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Save(cancelled, "k", strings.NewReader("x"), 1, ""), context.Canceled)
}

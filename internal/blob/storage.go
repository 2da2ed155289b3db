// Package blob stores testimonial images in an object store and hands out
// their public URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Storage is a provider backend addressed by object key.
type Storage interface {
	// Save writes the object. size may be -1 when unknown.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Remove deletes the object. A missing object is not an error.
	Remove(ctx context.Context, key string) error
}

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

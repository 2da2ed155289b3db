package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	apperrors "github.com/tutorhub/tutorhub-backend/errors"
	"github.com/tutorhub/tutorhub-backend/logger"
	"go.uber.org/zap"
)

// Gateway puts images into a Storage and removes them by public URL.
type Gateway struct {
	storage     Storage
	provider    string
	baseURL     string
	host        string
	placeholder string
	log         *zap.SugaredLogger
}

// NewGateway creates a Gateway. publicBaseURL is the prefix objects are
// served from; its host identifies URLs that belong to this provider.
func NewGateway(provider string, storage Storage, publicBaseURL, placeholder string) (*Gateway, error) {
	base := strings.TrimRight(publicBaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid public base URL %q", publicBaseURL)
	}
	return &Gateway{
		storage:     storage,
		provider:    provider,
		baseURL:     base,
		host:        u.Host,
		placeholder: placeholder,
		log:         logger.GetLogger().With("component", "blob_gateway", "provider", provider),
	}, nil
}

// Provider returns the configured provider name.
func (g *Gateway) Provider() string {
	return g.provider
}

// Put stores r under key and returns its public URL. Failures come back as
// an UploadError.
func (g *Gateway) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		blobOperations.WithLabelValues(g.provider, opPut, resultError).Inc()
		return "", apperrors.UploadFailed(err)
	}
	if err := g.storage.Save(ctx, key, r, size, contentType); err != nil {
		blobOperations.WithLabelValues(g.provider, opPut, resultError).Inc()
		return "", apperrors.UploadFailed(fmt.Errorf("save %s: %w", key, err))
	}
	blobOperations.WithLabelValues(g.provider, opPut, resultSuccess).Inc()
	g.log.Debugw("Stored blob", "key", key, "size", size)
	return g.URLFor(key), nil
}

// URLFor returns the public URL of key.
func (g *Gateway) URLFor(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return g.baseURL + "/" + strings.Join(segments, "/")
}

// Owns reports whether rawURL points into this provider.
func (g *Gateway) Owns(rawURL string) bool {
	if rawURL == "" || rawURL == g.placeholder {
		return false
	}
	return strings.Contains(rawURL, g.host)
}

// Delete removes the blob behind rawURL. It never fails: the placeholder and
// foreign URLs are ignored and storage errors are logged.
func (g *Gateway) Delete(ctx context.Context, rawURL string) {
	if !g.Owns(rawURL) {
		blobOperations.WithLabelValues(g.provider, opDelete, resultSkipped).Inc()
		return
	}

	key, ok := g.keyFromURL(rawURL)
	if !ok {
		blobOperations.WithLabelValues(g.provider, opDelete, resultSkipped).Inc()
		g.log.Warnw("Cannot derive blob key from URL, leaving blob in place", "url", rawURL)
		return
	}

	if err := g.storage.Remove(ctx, key); err != nil {
		blobOperations.WithLabelValues(g.provider, opDelete, resultError).Inc()
		g.log.Warnw("Failed to delete blob", "key", key, "error", err)
		return
	}
	blobOperations.WithLabelValues(g.provider, opDelete, resultSuccess).Inc()
	g.log.Debugw("Deleted blob", "key", key)
}

func (g *Gateway) keyFromURL(rawURL string) (string, bool) {
	rest, found := strings.CutPrefix(rawURL, g.baseURL+"/")
	if !found {
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil || validateKey(key) != nil {
		return "", false
	}
	return key, true
}

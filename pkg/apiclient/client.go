// Package apiclient is a Go client for the testimonials API. Calls return
// plain results; callers that keep a list on screen re-read it explicitly
// through ListQuery after a mutation.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tutorhub/tutorhub-backend/logger"
	"github.com/tutorhub/tutorhub-backend/types"
	"golang.org/x/text/language"
)

const testimonialsPath = "/api/testimonials"

// ClientInterface defines the testimonial operations offered by Client.
type ClientInterface interface {
	List(ctx context.Context) ([]types.Testimonial, error)
	Create(ctx context.Context, req CreateRequest) (*types.Testimonial, error)
	Delete(ctx context.Context, id string) (string, error)
}

var _ ClientInterface = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	locale     language.Tag
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLocale sets the language of generic failure messages.
func WithLocale(locale language.Tag) Option {
	return func(c *Client) { c.locale = locale }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		locale:     English,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ImageFile is an image attached to a create request.
type ImageFile struct {
	Filename string
	Content  io.Reader
}

// CreateRequest carries the form fields of a new testimonial.
type CreateRequest struct {
	Name        string
	Quote       string
	Designation types.Designation
	Image       *ImageFile
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Type    string          `json:"type,omitempty"`
}

// List fetches every testimonial, newest first.
func (c *Client) List(ctx context.Context) ([]types.Testimonial, error) {
	var out []types.Testimonial
	if _, err := c.do(ctx, http.MethodGet, testimonialsPath, nil, "", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Testimonial{}
	}
	return out, nil
}

// Create posts a multipart form. The image part is omitted when req.Image is nil.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*types.Testimonial, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", req.Name},
		{"quote", req.Quote},
		{"designation", string(req.Designation)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to encode form field %s: %w", f[0], err)
		}
	}
	if req.Image != nil {
		part, err := w.CreateFormFile("image", req.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, req.Image.Content); err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var created types.Testimonial
	if _, err := c.do(ctx, http.MethodPost, testimonialsPath, &buf, w.FormDataContentType(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete removes a testimonial and returns the server's acknowledgement.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, testimonialsPath+"/"+url.PathEscape(id), nil, "", nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (*envelope, error) {
	log := logger.GetLogger()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnw("Testimonials API request failed", "method", method, "path", path, "error", err)
		return nil, &Error{Transport: true, Message: localize(c.locale, msgNetworkFailure), Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &Error{StatusCode: resp.StatusCode, Type: env.Type, Message: env.Message}
		if decodeErr != nil || env.Message == "" {
			apiErr.Message = localize(c.locale, msgUnexpected)
			apiErr.Err = decodeErr
		}
		log.Debugw("Testimonials API returned an error", "method", method, "path", path, "statusCode", resp.StatusCode, "type", env.Type)
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: localize(c.locale, msgUnexpected), Err: decodeErr}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{StatusCode: resp.StatusCode, Message: localize(c.locale, msgUnexpected), Err: err}
		}
	}
	return &env, nil
}

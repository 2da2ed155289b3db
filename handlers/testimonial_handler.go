package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	apperrors "github.com/tutorhub/tutorhub-backend/errors"
	testimonialSvc "github.com/tutorhub/tutorhub-backend/models/testimonial/service"
	"github.com/tutorhub/tutorhub-backend/types"
)

// multipartOverhead is the room left for form fields around the image.
const multipartOverhead = 1 << 20

// TestimonialServiceInterface defines the methods used by TestimonialHandler,
// allowing the handler to be tested with mocks.
type TestimonialServiceInterface interface {
	List(ctx context.Context) ([]*types.Testimonial, error)
	Create(ctx context.Context, in types.TestimonialCreate, image *types.ImageUpload) (*types.Testimonial, error)
	Delete(ctx context.Context, id string) error
}

// Ensure the concrete service satisfies the interface at compile time.
var _ TestimonialServiceInterface = (*testimonialSvc.TestimonialService)(nil)

// TestimonialHandler serves the testimonial endpoints.
type TestimonialHandler struct {
	service       TestimonialServiceInterface
	maxImageBytes int64
}

// NewTestimonialHandler creates a new TestimonialHandler.
func NewTestimonialHandler(service TestimonialServiceInterface, maxImageBytes int64) *TestimonialHandler {
	return &TestimonialHandler{
		service:       service,
		maxImageBytes: maxImageBytes,
	}
}

// ListTestimonials godoc
// @Summary      List testimonials
// @Description  Returns all testimonials, newest first
// @Tags         testimonials
// @Produce      json
// @Success      200  {object}  types.TestimonialListResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/testimonials [get]
func (h *TestimonialHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: testimonials})
}

// CreateTestimonial godoc
// @Summary      Create a testimonial
// @Description  Creates a testimonial with an optional image. Any imageUrl field sent by the client is ignored.
// @Tags         testimonials
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true   "Author name"
// @Param        quote        formData  string  true   "Testimonial text"
// @Param        designation  formData  string  true   "student or parent"
// @Param        image        formData  file    false  "Author photo (jpeg, png, webp, gif, heic)"
// @Success      201  {object}  types.TestimonialResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/testimonials [post]
func (h *TestimonialHandler) CreateTestimonial(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes+multipartOverhead)

	if err := h.parseForm(c); err != nil {
		_ = c.Error(err)
		return
	}

	in := types.TestimonialCreate{
		Name:        c.PostForm("name"),
		Quote:       c.PostForm("quote"),
		Designation: c.PostForm("designation"),
	}

	image, file, err := h.readImage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	created, err := h.service.Create(c.Request.Context(), in, image)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.APIResponse{Success: true, Data: created})
}

// DeleteTestimonial godoc
// @Summary      Delete a testimonial
// @Description  Deletes a testimonial and its stored image
// @Tags         testimonials
// @Produce      json
// @Param        id   path      string  true  "Testimonial ID"
// @Success      200  {object}  types.StatusResponse
// @Failure      404  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/testimonials/{id} [delete]
func (h *TestimonialHandler) DeleteTestimonial(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Message: "Testimonial deleted successfully"})
}

// parseForm accepts multipart bodies, and urlencoded bodies for image-less creates.
func (h *TestimonialHandler) parseForm(c *gin.Context) error {
	err := c.Request.ParseMultipartForm(h.maxImageBytes)
	if err == nil {
		return nil
	}
	if stderrors.Is(err, http.ErrNotMultipart) {
		if err := c.Request.ParseForm(); err != nil {
			return apperrors.ValidationFailed("Invalid form body", err.Error())
		}
		return nil
	}
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return apperrors.ValidationFailed("Image is too large",
			fmt.Sprintf("maximum size is %d bytes", h.maxImageBytes))
	}
	return apperrors.ValidationFailed("Invalid multipart form", "failed to parse multipart form")
}

// readImage opens the optional "image" part and sniffs its type from content.
// The returned file must be closed by the caller.
func (h *TestimonialHandler) readImage(c *gin.Context) (*types.ImageUpload, multipart.File, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil, nil
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, apperrors.ValidationFailed("Invalid image", "failed to read image field")
	}
	if fileHeader.Size > h.maxImageBytes {
		return nil, nil, apperrors.ValidationFailed("Image is too large",
			fmt.Sprintf("maximum size is %d bytes", h.maxImageBytes))
	}
	if fileHeader.Size == 0 {
		return nil, nil, apperrors.ValidationFailed("Image is empty", "")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, apperrors.ValidationFailed("Invalid image", "failed to open uploaded file")
	}

	// Server-side MIME detection; the client-declared Content-Type is not trusted
	sniffBuf := make([]byte, 512)
	n, err := io.ReadFull(file, sniffBuf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to rewind image: %w", err)
	}

	return &types.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: mimetype.Detect(sniffBuf[:n]).String(),
		Size:        fileHeader.Size,
		Content:     file,
	}, file, nil
}

package types

import (
	"io"
	"time"
)

// Designation tells who wrote a testimonial.
type Designation string

const (
	DesignationStudent Designation = "student"
	DesignationParent  Designation = "parent"
)

// Designations lists every accepted designation.
var Designations = []Designation{DesignationStudent, DesignationParent}

// IsValid reports whether d is one of the accepted designations.
func (d Designation) IsValid() bool {
	for _, v := range Designations {
		if d == v {
			return true
		}
	}
	return false
}

// Testimonial is a quote from a student or parent shown on the public site.
type Testimonial struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Quote       string      `json:"quote"`
	Designation Designation `json:"designation"`
	ImageURL    string      `json:"imageUrl"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	// DeletionRequestedAt is set when a delete has started but not finished.
	DeletionRequestedAt *time.Time `json:"-"`
}

// TestimonialCreate carries the client-supplied fields of a new testimonial.
// There is deliberately no image URL field: the URL is always assigned server-side.
type TestimonialCreate struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Quote       string `json:"quote" form:"quote" validate:"required"`
	Designation string `json:"designation" form:"designation" validate:"required,designation"`
}

// ImageUpload is an image attached to a create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

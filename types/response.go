package types

// APIResponse is the envelope of every testimonial API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// TestimonialResponse documents a single-testimonial response for swagger.
type TestimonialResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    Testimonial `json:"data"`
}

// TestimonialListResponse documents the list response for swagger.
type TestimonialListResponse struct {
	Success bool          `json:"success" example:"true"`
	Data    []Testimonial `json:"data"`
}

// StatusResponse is a success acknowledgement without payload.
type StatusResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Testimonial deleted successfully"`
}

// ErrorResponse is what the error middleware writes.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
}

package config

// PlaceholderImagePath is the imageUrl of a testimonial created without an image.
// It is a site-relative path served by the frontend, never a blob store URL.
const PlaceholderImagePath = "/images/placeholder-avatar.png"

// TestimonialsFolder is the default blob key prefix for testimonial images.
const TestimonialsFolder = "testimonials"

// LocalUploadsRoute is where the local blob provider's files are served from.
const LocalUploadsRoute = "/uploads"

// DefaultMaxImageBytes caps a single image upload (10MB).
const DefaultMaxImageBytes = 10 * 1024 * 1024

// Package docs holds the OpenAPI document served at /swagger. Regenerate with
// `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports DOWN with 503 when the record store is unreachable.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthCheck"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.HealthCheck"}}
                }
            }
        },
        "/api/testimonials": {
            "get": {
                "description": "Returns all testimonials, newest first",
                "produces": ["application/json"],
                "tags": ["testimonials"],
                "summary": "List testimonials",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TestimonialListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Creates a testimonial with an optional image. Any imageUrl field sent by the client is ignored.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["testimonials"],
                "summary": "Create a testimonial",
                "parameters": [
                    {"type": "string", "description": "Author name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Testimonial text", "name": "quote", "in": "formData", "required": true},
                    {"type": "string", "description": "student or parent", "name": "designation", "in": "formData", "required": true},
                    {"type": "file", "description": "Author photo (jpeg, png, webp, gif, heic)", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.TestimonialResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/testimonials/{id}": {
            "delete": {
                "description": "Deletes a testimonial and its stored image",
                "produces": ["application/json"],
                "tags": ["testimonials"],
                "summary": "Delete a testimonial",
                "parameters": [
                    {"type": "string", "description": "Testimonial ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Testimonial": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "quote": {"type": "string"},
                "designation": {"type": "string", "enum": ["student", "parent"]},
                "imageUrl": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "types.TestimonialResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/types.Testimonial"}
            }
        },
        "types.TestimonialListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/types.Testimonial"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Testimonial deleted successfully"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string"},
                "type": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "types.HealthComponent": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "types.HealthCheck": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["UP", "DOWN", "DEGRADED"]},
                "components": {"type": "object", "additionalProperties": {"$ref": "#/definitions/types.HealthComponent"}},
                "version": {"type": "string"},
                "timestamp": {"type": "string"},
                "uptime": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "TutorHub Testimonials API",
	Description:      "Testimonials backend for the TutorHub site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// pkg/models/api.go
package models

// Laravel-style validation error response
type ValidationErrorResponse struct {
	Message string              `json:"message" example:"Validation failed"`
	Errors  map[string][]string `json:"errors"`
}

// Generic error response (404/409/422/500)
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"Not Found"`
	Code    string `json:"code,omitempty" example:"NOT_FOUND"`
}

// Package validation checks API request bodies.
//
// JSON bodies are validated with struct tags (go-playground/validator), with
// field paths taken from json tags:
//
//	type TranslateRequest struct {
//	    Text string `json:"text" validate:"required"`
//	}
//	err := validation.Validate(req)
//
// Multipart fields are checked programmatically:
//
//	err := validation.New().NonEmpty("file", data).Validate()
package validation

// Package validation turns request validation failures into INVALID_INPUT
// errors with per-field details.
//
// Request structs use `validate` tags checked by Validate:
//
//	type polishRequest struct {
//	    Text  string `json:"text" validate:"required,max=50000"`
//	    Style string `json:"style" validate:"omitempty,oneof=formal casual extremely_casual"`
//	}
//
// Checks tags cannot express, such as audio uploads, use a Validator:
//
//	v := validation.New().Audio("audio", fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
//	if err := v.Validate(); err != nil { ... }
package validation

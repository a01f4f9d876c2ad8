package validation

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/voicekit/errors"
)

// AudioFormats are the accepted upload extensions.
var AudioFormats = []string{"wav", "mp3", "webm", "m4a", "ogg", "flac"}

// MaxAudioBytes is the largest accepted upload, 25600 KB.
const MaxAudioBytes = 25600 * 1024

var audioMimeFormats = map[string]string{
	"audio/wav":       "wav",
	"audio/x-wav":     "wav",
	"audio/wave":      "wav",
	"audio/mpeg":      "mp3",
	"audio/mp3":       "mp3",
	"audio/webm":      "webm",
	"video/webm":      "webm",
	"audio/mp4":       "m4a",
	"audio/x-m4a":     "m4a",
	"audio/m4a":       "m4a",
	"audio/ogg":       "ogg",
	"application/ogg": "ogg",
	"audio/flac":      "flac",
	"audio/x-flac":    "flac",
}

// Validator collects field errors for checks struct tags cannot express.
// Each check appends and returns v so calls chain.
type Validator struct {
	fields []FieldError
}

// FieldError is one failing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New() *Validator { return &Validator{} }

func (v *Validator) add(field, message string) *Validator {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
	return v
}

// Validate returns nil, or an INVALID_INPUT AppError whose message joins
// every "field: message" and whose details.fields lists them.
func (v *Validator) Validate() *errors.AppError {
	if len(v.fields) == 0 {
		return nil
	}
	parts := make([]string, len(v.fields))
	for i, f := range v.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", v.fields)
}

// Required fails on blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, "is required")
	}
	return v
}

// Custom fails with message unless ok.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		return v.add(field, message)
	}
	return v
}

// Audio checks an upload's format and size. The format comes from the
// declared content type, else from the file extension.
func (v *Validator) Audio(field, filename, contentType string, size int64) *Validator {
	if AudioFormat(filename, contentType) == "" {
		v.add(field, "must be a file of type: "+strings.Join(AudioFormats, ", "))
	}
	switch {
	case size == 0:
		v.add(field, "must not be empty")
	case size > MaxAudioBytes:
		v.add(field, fmt.Sprintf("must not be greater than %d kilobytes", MaxAudioBytes/1024))
	}
	return v
}

// AudioFormat returns the accepted format of an upload, or "".
func AudioFormat(filename, contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	if f, ok := audioMimeFormats[strings.ToLower(strings.TrimSpace(mime))]; ok {
		return f
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if slices.Contains(AudioFormats, ext) {
		return ext
	}
	return ""
}

// ParseID parses a positive numeric path parameter.
func ParseID(field, value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.InvalidInput(field, fmt.Sprintf("%s must be a positive integer", field))
	}
	return uint(id), nil
}

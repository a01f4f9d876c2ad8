package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/voicekit/errors"
)

var structs = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Errors name fields as the client sent them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return toSnakeCase(f.Name)
	})
	return v
})

// Validate checks s against its `validate` tags. Every failing field is
// reported in one INVALID_INPUT AppError.
func Validate(s any) error {
	err := structs().Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !stderrors.As(err, &fes) {
		return errors.Validation("validation failed")
	}
	v := New()
	for _, fe := range fes {
		v.add(fe.Field(), describe(fe))
	}
	return v.Validate()
}

func describe(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isNumber(fe.Kind()) {
			return "must be at least " + p
		}
		return "must be at least " + p + " characters"
	case "max":
		if isNumber(fe.Kind()) {
			return "must be " + p + " or less"
		}
		return "must be at most " + p + " characters"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(p), ", ")
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}

func isNumber(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

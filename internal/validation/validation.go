// Package validation checks input structs and reports field-level failures.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// FieldError is one failed rule, keyed by the JSON field name.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// Error lists every failed field of one input. It matches ErrValidation with errors.Is.
type Error struct {
	Fields []FieldError
}

func New(fields ...FieldError) *Error {
	return &Error{Fields: fields}
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Description)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrValidation }

// Add appends a failure and returns e for chaining.
func (e *Error) Add(field, description string) *Error {
	e.Fields = append(e.Fields, FieldError{Field: field, Description: description})
	return e
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *Error) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct runs the validate tags of s and returns an *Error listing every
// failing field, or nil.
func Struct(s any) *Error {
	err := validate.Struct(s)
	if err == nil {
		return New()
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return New(FieldError{Field: "body", Description: err.Error()})
	}
	out := New()
	for _, fe := range ve {
		out.Add(fe.Field(), describe(fe))
	}
	return out
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

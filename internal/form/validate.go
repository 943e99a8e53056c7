package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks payload structs. Errors name fields by their JSON names.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists the fields that stopped a save before any request
// was sent.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Please fill in the required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "Please correct: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, ". ")
}

func check(payload any) error {
	errs := Validate.Struct(payload)
	if errs == nil {
		return nil
	}
	verrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("failed to validate: %w", errs)
	}
	ve := &ValidationError{}
	for _, err := range verrs {
		if err.Tag() == "required" {
			ve.Missing = append(ve.Missing, err.Field())
		} else {
			ve.Invalid = append(ve.Invalid, err.Field())
		}
	}
	return ve
}

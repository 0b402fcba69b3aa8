// Package validate checks request structs against their `validate` tags and
// renders failures as the short messages the API reports.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator. It satisfies echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a validator that names fields by their json tag
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Validator{v: v}
}

// Validate checks i, which must be a struct or a pointer to one
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Messages lists one line per failed rule. Errors that did not come from
// the validator are returned as their own text.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, message(fe))
	}
	return out
}

// Detail joins Messages into one line
func Detail(err error) string {
	return strings.Join(Messages(err), "; ")
}

// IsValidation reports whether err carries field failures
func IsValidation(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of " + strings.Join(strings.Fields(param), ", ")
	case "email":
		return field + " must be a valid email address"
	case "gte":
		if param == "0" {
			return field + " must not be negative"
		}
		return field + " must be at least " + param
	case "lte":
		return field + " must be at most " + param
	case "gt":
		if param == "0" {
			return field + " must be positive"
		}
		return field + " must be greater than " + param
	case "min":
		if fe.Kind() == reflect.Slice && param == "1" {
			return field + " must not be empty"
		}
		return field + " must be at least " + param
	case "latitude":
		return field + " must be between -90 and 90"
	case "longitude":
		return field + " must be between -180 and 180"
	case "datetime":
		return field + " must be formatted YYYY-MM-DD"
	default:
		return field + " is invalid"
	}
}

package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags and returns per-field failure reasons keyed by
// the lowercased field name, or nil when the value is valid.
func Validate(s any) map[string]any {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	details := map[string]any{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		details["body"] = err.Error()
		return details
	}
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = reason(fe)
	}
	return details
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "invalid value"
	}
}

package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// RegisterStructValidation adds a cross-field rule for the given types.
func (cv *CustomValidator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	cv.validator.RegisterStructValidation(fn, types...)
}

// ValidationMessages turns validator errors into one message per field,
// suitable for a flash or inline alert. Other errors pass through as-is.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	name := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", name, fe.Param())
	case "numeric":
		return name + " must contain only digits"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "url":
		return name + " must be a valid link"
	default:
		return name + " is invalid"
	}
}

// humanize splits a Go field name into words: "WhatsappNumber" -> "Whatsapp number".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

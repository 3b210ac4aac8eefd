package api

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator wraps go-playground/validator for HTTP payload validation
// at the API boundary.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

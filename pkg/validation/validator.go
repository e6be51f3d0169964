package validation

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps validator.Validate for use as echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates the configured validator: null-type support plus the domain
// rules used by the DTO struct tags.
func New() *CustomValidator {
	v := validator.New()

	registerNullTypes(v)

	// The server must not start with half-registered rules.
	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

// Package validators binds go-playground/validator as the echo validator.
package validators

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/apperrors"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate satisfies echo.Validator. Failures surface as invalid-request
// application errors so the central error handler formats them.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.ErrInvalidRequest.WithMessage(err.Error())
	}
	return nil
}

var _ echo.Validator = (*Validator)(nil)

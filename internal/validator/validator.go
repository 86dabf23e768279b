package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator bundles struct-tag validation with business rule validation.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	return &Validator{
		validate: validator.New(),
		business: NewBusinessValidator(),
	}
}

// Validate runs struct-tag validation and returns a ValidationErrors value
// (as error) when anything fails.
func (v *Validator) Validate(s interface{}) error {
	if err := v.business.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator exposes the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

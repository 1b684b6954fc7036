package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps struct-tag validation plus the business rules that cannot
// be expressed as tags. Models are validated here, at the boundary where a
// questionnaire or submission crosses into the engine, not at arbitrary
// points downstream.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents one rejected field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// New creates a validator with the questionnaire rule set registered.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate runs struct-tag validation on any value.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts go-playground field errors to the API shape.
func ToValidationErrors(err error) ValidationErrors {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}
	var out ValidationErrors
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

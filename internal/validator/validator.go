// Package validator wraps go-playground/validator with the registry's
// draft-validation rules and a structured error representation the UI layer
// can render field by field.
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/usha-institute/exam-registry/internal/models"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	v := &Validator{validate: validate}
	v.registerRules()
	return v
}

func (v *Validator) registerRules() {
	// course: the value must be one of the offered courses.
	_ = v.validate.RegisterValidation("course", func(fl validator.FieldLevel) bool {
		return models.Course(fl.Field().String()).Valid()
	})
}

// Validate checks a draft struct against its tags. It returns nil on
// success and ValidationErrors otherwise.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "course":
		return "must be one of ADCA, DCA"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

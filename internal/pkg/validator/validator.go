package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"hotelpms/internal/pkg/apperr"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Struct runs Validate and wraps failures into an apperr.ValidationError.
func Struct(v interface{}, message string) error {
	fields := Validate(v)
	if len(fields) == 0 {
		return nil
	}
	return &apperr.ValidationError{Message: message, Fields: fields}
}

package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the `validate` tags of an input struct and folds the
// failures into a single ErrorValidationFailed.
func ValidateStruct(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	fields := ProcessValidationErrors(err)
	return fmt.Errorf("%w: %v", ErrorValidationFailed, fields)
}

func ProcessValidationErrors(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errorResponse := make(map[string]string)
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a DTO against its validate tags and converts the
// first violation into an input error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return NewInputError(fmt.Sprintf("field '%s' failed validation on '%s'", first.Field(), first.Tag()))
	}
	return NewInputError("invalid request payload")
}

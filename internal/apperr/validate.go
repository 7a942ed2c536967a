package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags on input and reports failures as InvalidInput.
func Validate(input any) error {
	errValidate := validate.Struct(input)
	if errValidate == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(errValidate, &fieldErrs) {
		return &Error{Kind: KindInvalidInput, Msg: "invalid input", Err: errValidate}
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		if fieldErr.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fieldErr.Field(), fieldErr.Tag(), fieldErr.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return &Error{Kind: KindInvalidInput, Msg: strings.Join(parts, "; ")}
}

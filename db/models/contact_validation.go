package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	contactValidatorOnce sync.Once
	contactValidator     *validator.Validate
)

// ContactValidationError names the first field that failed validation.
type ContactValidationError struct {
	Field  string
	Reason string
}

func (e *ContactValidationError) Error() string {
	return e.Reason
}

func getContactValidator() *validator.Validate {
	contactValidatorOnce.Do(func() {
		v := validator.New()
		// Report fields by their JSON name so reasons read like the API payload
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		contactValidator = v
	})
	return contactValidator
}

// ValidateContact checks a contact against the rules enforced on every create.
// It returns nil or a *ContactValidationError for the first violated field,
// in struct field order.
func ValidateContact(c *Contact) error {
	err := getContactValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate contact: %w", err)
	}

	fe := fieldErrs[0]
	return &ContactValidationError{
		Field:  fe.Field(),
		Reason: describeFieldError(fe),
	}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

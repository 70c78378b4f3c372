// Package validate wraps go-playground/validator for request DTO validation.
// Rules are declared as struct tags; Struct returns the first failing rule as
// a caller-facing message, which handlers surface as the primary 400 error.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Error describes a single failed rule on a single field.
type Error struct {
	Field string
	Rule  string
	Param string
}

func (e *Error) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, strings.ReplaceAll(e.Param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", e.Field)
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field, e.Rule)
	}
}

var v = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so messages match the wire format.
	vd.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// phone validates international or Iranian-local numbers.
	_ = vd.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		num, err := phonenumbers.Parse(fl.Field().String(), "IR")
		if err != nil {
			return false
		}
		return phonenumbers.IsValidNumber(num)
	})

	return vd
}

// Struct validates s against its struct tags. On failure it returns the first
// violation as *Error; field order follows struct declaration order.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &Error{
			Field: first.Field(),
			Rule:  first.Tag(),
			Param: first.Param(),
		}
	}

	return err
}

// IsValidationError reports whether err (or anything it wraps) is a field
// validation failure.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

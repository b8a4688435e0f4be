// Package validation checks request structs once at the boundary using
// go-playground/validator struct tags.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"fightclub/internal/apperr"
	"fightclub/internal/clock"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		wd, ok := fl.Field().Interface().(clock.Weekday)
		return ok && wd.Valid()
	})
	_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		tod, ok := fl.Field().Interface().(clock.TimeOfDay)
		return ok && tod.Valid()
	})

	return v
}

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error collects every failed rule of one struct. It wraps apperr.ErrInvalidInput.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return apperr.ErrInvalidInput
}

// Struct validates s and returns *Error when any rule fails.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Invalid("validation failed: %v", err)
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// Details extracts the field list from a validation error, if err is one.
func Details(err error) []FieldError {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "weekday":
		return fe.Field() + " must be a day of the week"
	case "timeofday":
		return fe.Field() + " must be a time between 00:00 and 23:59"
	case "unique":
		return fe.Field() + " must not contain duplicates"
	default:
		return fe.Field() + " is invalid"
	}
}

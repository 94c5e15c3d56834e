package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		return name
	})

	return &Validator{validate: v}
}

// Validate reports every failed constraint of i. Field paths are relative to
// the validated value, e.g. "episodes[0].scenes[2].sceneStart".
func (v *Validator) Validate(i any) ([]ValidationError, bool) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, true
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ValidationError{{Code: "INVALID", Message: err.Error()}}, false
	}

	result := make([]ValidationError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fieldPath(fe.Namespace())

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max":
			message = fmt.Sprintf("%s must not exceed %s", field, fe.Param())
		case "gt", "gte":
			message = fmt.Sprintf("%s must be %s %s", field, comparison(fe.Tag()), fe.Param())
		default:
			message = fmt.Sprintf("%s failed on %s", field, fe.Tag())
		}

		result = append(result, ValidationError{
			Field:   field,
			Code:    strings.ToUpper(fe.Tag()),
			Message: message,
		})
	}

	return result, false
}

// Join folds validation errors into a single error, nil when there are none.
func Join(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}

	joined := make([]error, 0, len(errs))
	for _, e := range errs {
		joined = append(joined, e)
	}

	return errors.Join(joined...)
}

func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}

	return "at least"
}

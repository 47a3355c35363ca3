// Package validation defines the request schemas and the named custom
// validators they are built from. All field failures of a request are
// collected in one pass and surfaced together.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"crmbackend/internal/apperr"
	"crmbackend/internal/models"
)

var (
	registerOnce sync.Once

	positiveIntegerPattern = regexp.MustCompile(`^\d+$`)
	dateFormatPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Register installs the custom validators on gin's binding engine. Safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				if name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})

		_ = engine.RegisterValidation("posint", positiveInteger)
		_ = engine.RegisterValidation("positionvalues", positionValues)
		_ = engine.RegisterValidation("dateformat", dateFormat)
		_ = engine.RegisterValidation("strongpwd", strongPassword)
	})
}

// positiveInteger accepts only values whose original string form is an
// unsigned decimal integer. Absent values pass; presence is enforced with
// required separately.
func positiveInteger(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return positiveIntegerPattern.MatchString(value)
}

// positionValues splits the value on commas and requires every component to
// name a defined position, supporting multi-value membership checks.
func positionValues(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, part := range strings.Split(value, ",") {
		parsed, err := strconv.Atoi(part)
		if err != nil || !models.Position(parsed).Valid() {
			return false
		}
	}
	return true
}

// dateFormat requires the literal YYYY-MM-DD shape. Absent values pass.
func dateFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateFormatPattern.MatchString(value)
}

// strongPassword requires 8-255 characters with at least one lowercase
// letter, one uppercase letter, one digit and one special character.
func strongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) < 8 || len(value) > 255 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{};':\"\\|,.<>/?", r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// AsError converts a binding failure into the aggregated validation error
// the boundary mapper understands.
func AsError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		messages := make([]string, 0, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			messages = append(messages, describe(fieldError))
		}
		return apperr.Validation(messages)
	}
	return apperr.Validation([]string{"invalid request body"})
}

func describe(fieldError validator.FieldError) string {
	field := fieldError.Field()
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required field", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
	case "posint":
		return fmt.Sprintf("%s must be a positive integer", field)
	case "positionvalues":
		return fmt.Sprintf("%s is not a defined position", field)
	case "dateformat":
		return "Date must be in YYYY-MM-DD format"
	case "strongpwd":
		return "Password is not strong enough"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ParseID validates a numeric path parameter.
func ParseID(raw string) (int64, error) {
	if !positiveIntegerPattern.MatchString(raw) {
		return 0, apperr.BadRequest("Invalid id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Invalid id")
	}
	return id, nil
}

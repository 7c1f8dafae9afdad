// Package validate runs client-side checks on request payloads before they
// reach the network.
package validate

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/tutorhub/console/internal/errors"
)

var (
	once     sync.Once
	instance *validator.Validate

	roleNamePattern = regexp.MustCompile(`^ROLE_[A-Z][A-Z0-9_]*$`)
)

// Validator returns the shared validator with the console's custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("role_name", validateRoleName)
		_ = v.RegisterValidation("time_range", validateTimeRange)
		instance = v
	})
	return instance
}

// Struct validates s and returns a validation ServiceError keyed by JSON field
// name, or nil.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return apperrors.Validation(map[string]string{"request": err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return apperrors.Validation(fields)
}

// Var validates a single value against tag, reporting failures under name.
func Var(name string, value any, tag string) error {
	err := Validator().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.Validation(map[string]string{name: message(verrs[0])})
	}
	return apperrors.Validation(map[string]string{name: err.Error()})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isNumeric(fe.Kind()) {
			return "must be at least " + fe.Param()
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return "must be at most " + fe.Param()
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "eqfield":
		return "must match " + lowerFirst(fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "role_name":
		return "must look like ROLE_NAME"
	case "time_range":
		return "must be month, quarter or year"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func validateRoleName(fl validator.FieldLevel) bool {
	return roleNamePattern.MatchString(fl.Field().String())
}

func validateTimeRange(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "month", "quarter", "year":
		return true
	}
	return false
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return lowerFirst(f.Name)
	}
	if name == "" {
		return f.Name
	}
	return name
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

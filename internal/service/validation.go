package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/brandon3sican/to-system/internal/model"
)

// ValidationError field-level input errors, keyed by form field name.
// Handlers re-render the form with these messages next to each input.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the sentinel behind a single-field error
func (e *ValidationError) Unwrap() error { return e.cause }

// newFieldError single-field validation error wrapping a sentinel
func newFieldError(field string, cause error) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: cause.Error()}, cause: cause}
}

// ErrInvalidReference a submitted id does not point at an existing row
var ErrInvalidReference = errors.New("The selected value is invalid.")

var salaryPattern = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// salary: non-negative, at most two decimals, fits NUMERIC(12,2)
	_ = v.RegisterValidation("salary", func(fl validator.FieldLevel) bool {
		return salaryPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case model.GenderMale, model.GenderFemale, model.GenderOther:
			return true
		}
		return false
	})
	return v
}

// validateStruct runs tag validation and converts failures into a ValidationError
func validateStruct(s interface{}, except ...string) error {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(s, except...)
	} else {
		err = validate.Struct(s)
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldLabel "position_id" → "position"
func fieldLabel(field string) string {
	field = strings.TrimSuffix(field, "_id")
	return strings.ReplaceAll(field, "_", " ")
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", label, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", fieldLabel(strings.ToLower(fe.Param())))
	case "uuid":
		return ErrInvalidReference.Error()
	case "oneof", "gender":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date.", label)
	case "salary":
		return "The salary must be a non-negative amount with at most two decimal places."
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

// ── value parsing shared by forms and imports ──

const dateLayout = "2006-01-02"

// parseOptionalDate "" → nil
func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseSalary(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !salaryPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid salary %q", s)
	}
	return decimal.NewFromString(s)
}

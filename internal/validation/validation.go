// Package validation wraps go-playground/validator with the custom types used by the
// request DTOs and turns violations into apperror.Validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog/internal/apperror"
	"catalog/internal/dto"
)

// Validator validates request DTOs and path parameters.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that understands decimal prices and optional DTO fields.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fieldName(fld)
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d := field.Interface().(decimal.Decimal)
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(dto.Optional[string]).Ptr()
	}, dto.Optional[string]{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(dto.Optional[int]).Ptr()
	}, dto.Optional[int]{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(dto.Optional[bool]).Ptr()
	}, dto.Optional[bool]{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		o := field.Interface().(dto.Optional[decimal.Decimal])
		if !o.Present() {
			return (*float64)(nil)
		}
		f, _ := o.Value.Float64()
		return &f
	}, dto.Optional[decimal.Decimal]{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(dto.Nullable[string]).Ptr()
	}, dto.Nullable[string]{})

	return &Validator{validate: v}
}

// Struct validates s and reports every violated rule. Explicit nulls on fields that
// do not accept null are reported alongside the tag violations.
func (v *Validator) Struct(s any) error {
	details := nullViolations(s)

	if err := v.validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperror.Internal("validation could not run", err)
		}
		details = append(details, FieldErrors(verrs)...)
	}

	if len(details) > 0 {
		return apperror.Validation(summary(details), details...)
	}
	return nil
}

// ID validates a path identifier.
func (v *Validator) ID(name, value string) error {
	if err := v.validate.Var(value, "required,uuid"); err != nil {
		return apperror.Validation(
			fmt.Sprintf("Invalid %s: must be a valid UUID", name),
			apperror.FieldError{Field: name, Rule: "uuid", Message: fmt.Sprintf("%s must be a valid UUID", name)},
		)
	}
	return nil
}

// FieldErrors converts validator errors into API field errors.
func FieldErrors(verrs validator.ValidationErrors) []apperror.FieldError {
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, apperror.FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: message(e),
		})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "ne":
		return fmt.Sprintf("%s must not be %s", e.Field(), e.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", e.Field(), e.Tag())
	}
}

func summary(details []apperror.FieldError) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, d.Message)
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

type nullable interface {
	IsNull() bool
	AllowsNull() bool
}

func nullViolations(s any) []apperror.FieldError {
	rv := reflect.Indirect(reflect.ValueOf(s))
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var out []apperror.FieldError
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		fv := rv.Field(i)
		if !fv.CanInterface() {
			continue
		}
		n, ok := fv.Interface().(nullable)
		if !ok || !n.IsNull() || n.AllowsNull() {
			continue
		}
		name := fieldName(rt.Field(i))
		out = append(out, apperror.FieldError{
			Field:   name,
			Rule:    "notnull",
			Message: fmt.Sprintf("%s must not be null", name),
		})
	}
	return out
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "query"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Package inputval validates decoded request payloads with struct tags.
//
// Field errors are keyed by the JSON name of the offending field, with the
// leading struct name removed ("tags[0].name", not "recipeInput.Tags[0].Name"),
// and carry client-facing messages.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-playground/validator/v10"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// validate returns the shared validator, registering custom rules on first use.
func validate() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
		_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
			_, err := models.ParsePrice(fl.Field().String())
			return err == nil
		})
		instance = v
	})
	return instance
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the field errors of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// Add appends a field error. Handlers use it for checks that are not
// expressible as tags (duplicate email, unparsable filter).
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Map groups messages by field in the order they were added.
func (r *Result) Map() map[string][]string {
	m := make(map[string][]string, len(r.Errors))
	for _, e := range r.Errors {
		m[e.Field] = append(m[e.Field], e.Message)
	}
	return m
}

// Validate checks v (a struct or pointer to struct) against its
// `validate` tags.
func Validate(v any) *Result {
	res := &Result{}
	err := validate().Struct(v)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Add("non_field_errors", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.Add(fieldPath(fe), message(fe))
	}
	return res
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "url", "httpurl":
		return "Enter a valid URL."
	case "price":
		return fmt.Sprintf("A valid number is required with at most %d digits and %d decimal places.",
			models.PriceMaxDigits, models.PriceDecimalPlaces)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

// IsValidEmail reports whether s is a bare email address.
func IsValidEmail(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	return validate().Var(s, "email") == nil
}

// IsValidHTTPURL reports whether s is an absolute http or https URL with
// a host.
func IsValidHTTPURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	return urlutil.IsValidAbsHTTPURL(s)
}

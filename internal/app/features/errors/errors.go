// Package errors renders the API's JSON error responses.
//
// Field validation failures are 400 with {"errors": {"field": ["msg"]}};
// everything else carries a single {"detail": "..."} message.
package errors

import (
	"fmt"
	"net/http"

	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
)

// NonFieldErrors is the key for errors that belong to no single field.
const NonFieldErrors = "non_field_errors"

// Detail is the body of non-validation errors.
type Detail struct {
	Detail string `json:"detail"`
}

// Validation is the body of 400 field errors.
type Validation struct {
	Errors map[string][]string `json:"errors"`
}

// WriteDetail writes {"detail": msg} with status.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	jsonio.Write(w, status, Detail{Detail: msg})
}

// WriteFields writes a 400 with the given field errors.
func WriteFields(w http.ResponseWriter, fields map[string][]string) {
	jsonio.Write(w, http.StatusBadRequest, Validation{Errors: fields})
}

// WriteField writes a 400 with a single field error.
func WriteField(w http.ResponseWriter, field, msg string) {
	WriteFields(w, map[string][]string{field: {msg}})
}

// WriteValidation writes a 400 from a validation result.
func WriteValidation(w http.ResponseWriter, res *inputval.Result) {
	WriteFields(w, res.Map())
}

// NotFound writes the 404 returned for missing and foreign objects alike.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteDetail(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed is installed as the router's 405 handler.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
}

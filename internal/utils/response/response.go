// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Success responses may carry any JSON shape. Error responses always look
// like:
//
//	{ "status": "error", "error": "Email already registered" }
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes data as JSON with the given status code.
//
//	response.WriteJSON(w, http.StatusCreated, student)
//
// Header() must be set before WriteHeader(), which must come before the
// body: once the status line is written the headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a bodiless 204, used by DELETE.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// GeneralError wraps any Go error into the error envelope. Only use it for
// errors whose text is safe to show a client.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// Message builds the error envelope from a fixed message:
//
//	response.Message("Student with id %d not found", 7)
//	// { "status": "error", "error": "Student with id 7 not found" }
func Message(format string, args ...any) Response {
	return Response{
		Status: StatusError,
		Error:  fmt.Sprintf(format, args...),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError turns validator field errors into one readable message:
//
//	{ "status": "error", "error": "field name is required, field email must be a valid email address" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DecodeError describes a JSON decoding failure without exposing Go type
// names, in the same "field X ..." wording as ValidationError:
//
//	{"wellbeing_score": "high"}  ->  field wellbeing_score must be a number
//	[1, 2]                       ->  request body must be a JSON object
//	{"name":                     ->  request body is not valid JSON
//
// ─────────────────────────────────────────────────────────────────────────────
func DecodeError(err error) Response {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			if typeErr.Type != nil && typeErr.Type.Kind() == reflect.Struct {
				return Message("request body must be a JSON object")
			}
			return Message("a field has the wrong type: expected %s", kindName(typeErr.Type))
		}
		return Message("field %s must be %s", typeErr.Field, kindName(typeErr.Type))

	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return Message("request body is not valid JSON")

	default:
		return Message("request body could not be decoded")
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "a valid value"
	}
}

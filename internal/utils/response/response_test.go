package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aanand-mishra/wellbeing-api/internal/types"
	"github.com/go-playground/validator/v10"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusCreated, map[string]int{"id": 1}); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "{\"id\":1}\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("got %d with %d body bytes", rec.Code, rec.Body.Len())
	}
}

func TestGeneralErrorAndMessage(t *testing.T) {
	if got := GeneralError(errors.New("boom")); got.Status != StatusError || got.Error != "boom" {
		t.Errorf("GeneralError = %+v", got)
	}
	if got := Message("Student with id %d not found", 7); got.Error != "Student with id 7 not found" {
		t.Errorf("Message = %+v", got)
	}

	b, _ := json.Marshal(Message("x"))
	if string(b) != `{"status":"error","error":"x"}` {
		t.Errorf("json = %s", b)
	}
}

func TestValidationError(t *testing.T) {
	err := types.StudentWrite{Email: "nope"}.Validate()

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}

	got := ValidationError(verrs).Error
	want := "field name is required, field email must be a valid email address"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"wrong optional type", `{"wellbeing_score":"high"}`, "field wellbeing_score must be a number"},
		{"wrong required type", `{"email":["a@example.com"]}`, "field email must be a string"},
		{"not an object", `"ada"`, "request body must be a JSON object"},
		{"truncated", `{"name":`, "request body is not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w types.StudentWrite
			err := json.Unmarshal([]byte(tt.body), &w)
			if err == nil {
				t.Fatal("expected a decode error")
			}
			if got := DecodeError(err).Error; got != tt.want {
				t.Errorf("DecodeError = %q, want %q", got, tt.want)
			}
		})
	}

	if got := DecodeError(errors.New("boom")).Error; got != "request body could not be decoded" {
		t.Errorf("fallback = %q", got)
	}
}

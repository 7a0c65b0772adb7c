// Package types holds the data structures shared across the application.
// Keeping them in one place prevents import cycles: handlers, storage and
// utils can all import types without depending on each other.
package types

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Student is the persisted record and also the read shape returned by the
// API. Cohort and WellbeingScore are nullable and encode as JSON null.
type Student struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Cohort         *string   `json:"cohort"`
	WellbeingScore *float64  `json:"wellbeing_score"`
	Timestamp      time.Time `json:"timestamp"`
}

// StudentWrite is the request payload for both create and update.
//
// Name and Email are always carried. Cohort and WellbeingScore remember
// whether the client sent them at all, so an update can leave omitted
// fields untouched while still clearing fields sent as null.
type StudentWrite struct {
	Name           string            `json:"name"  validate:"required"`
	Email          string            `json:"email" validate:"required,email"`
	Cohort         Optional[string]  `json:"cohort"`
	WellbeingScore Optional[float64] `json:"wellbeing_score"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names ("email") rather than Go names ("Email").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks the validate:"..." rules. A failure is returned as
// validator.ValidationErrors.
func (w StudentWrite) Validate() error {
	return validate.Struct(w)
}

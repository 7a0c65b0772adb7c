// Package storage defines the Storage interface, the contract any database
// backend must satisfy to work with this application.
//
// Handlers depend only on this interface, so the SQLite and PostgreSQL
// backends are interchangeable and tests can pass an in-memory fake.
package storage

import (
	"context"

	"github.com/aanand-mishra/wellbeing-api/internal/types"
)

// Pagination defaults applied by the list handler.
const (
	DefaultSkip  = 0
	DefaultLimit = 100
)

// Storage is the data-access contract.
//
// Expected "not found" outcomes are reported through the bool result and
// never as an error; a non-nil error always means the backend failed.
// None of the methods check email uniqueness, callers must do that.
type Storage interface {
	// ListStudents returns up to limit students after skipping skip, in
	// the backend's default order. Never returns a nil slice.
	ListStudents(ctx context.Context, skip, limit int) ([]types.Student, error)

	// GetStudentByID reports false when no student has that id.
	GetStudentByID(ctx context.Context, id int64) (types.Student, bool, error)

	// GetStudentByEmail reports false when no student has that email.
	GetStudentByEmail(ctx context.Context, email string) (types.Student, bool, error)

	// CreateStudent inserts a student. The backend assigns id and
	// timestamp; the fully populated row is returned.
	CreateStudent(ctx context.Context, in types.StudentWrite) (types.Student, error)

	// UpdateStudent applies only the fields present in the payload and
	// returns the stored row. It reports false when the id does not exist.
	UpdateStudent(ctx context.Context, id int64, in types.StudentWrite) (types.Student, bool, error)

	// DeleteStudent reports whether a row was removed.
	DeleteStudent(ctx context.Context, id int64) (bool, error)

	Close() error
}

// Assignment is one "column = value" pair of an UPDATE statement.
type Assignment struct {
	Column string
	Value  any
}

// UpdateAssignments returns the columns an update must touch. Name and
// email are always written; cohort and wellbeing_score only when the
// client sent them, and a null clears the column.
//
// Backends render the list with their own placeholder syntax.
func UpdateAssignments(in types.StudentWrite) []Assignment {
	set := []Assignment{
		{Column: "name", Value: in.Name},
		{Column: "email", Value: in.Email},
	}

	if in.Cohort.IsSet() {
		set = append(set, Assignment{Column: "cohort", Value: in.Cohort.Ptr()})
	}
	if in.WellbeingScore.IsSet() {
		set = append(set, Assignment{Column: "wellbeing_score", Value: in.WellbeingScore.Ptr()})
	}

	return set
}

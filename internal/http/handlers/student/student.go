// Package student contains the HTTP handlers for the Student resource.
//
// Each exported function is a factory: it is called once at startup with
// the storage dependency and returns the http.HandlerFunc the router runs
// on every request.
//
//	mux.HandleFunc("POST /students", student.New(store))
//
// Business rules live here, not in storage: existence checks, the email
// uniqueness check, and the mapping of outcomes to status codes.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/wellbeing-api/internal/storage"
	"github.com/aanand-mishra/wellbeing-api/internal/types"
	"github.com/aanand-mishra/wellbeing-api/internal/utils/response"
)

const msgEmailTaken = "Email already registered"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students.
//
// Request body (cohort and wellbeing_score are optional):
//
//	{ "name": "Ada", "email": "ada@example.com", "cohort": "2025-A", "wellbeing_score": 7.5 }
//
// Success response (201 Created), the stored student:
//
//	{ "id": 1, "name": "Ada", "email": "ada@example.com", "cohort": "2025-A",
//	  "wellbeing_score": 7.5, "timestamp": "2026-10-17T09:30:00.123Z" }
//
// Error responses:
//
//	400 Bad Request           email already registered
//	422 Unprocessable Entity  empty, malformed or invalid body
//	500 Internal              database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		in, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		// Check-then-insert is not atomic: two concurrent creates with the
		// same email can both pass. The UNIQUE constraint turns the loser
		// into a 500.
		_, taken, err := store.GetStudentByEmail(r.Context(), in.Email)
		if err != nil {
			internalError(w, "error checking email", err)
			return
		}
		if taken {
			response.WriteJSON(w, http.StatusBadRequest, response.Message(msgEmailTaken))
			return
		}

		student, err := store.CreateStudent(r.Context(), in)
		if err != nil {
			internalError(w, "error creating student", err)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}.
//
// Success response (200 OK): the student, same shape as New returns.
//
// Error responses:
//
//	404 Not Found             { "status": "error", "error": "Student with id 7 not found" }
//	422 Unprocessable Entity  id is not an integer
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, found, err := store.GetStudentByID(r.Context(), id)
		if err != nil {
			internalError(w, "error getting student", err, slog.Int64("id", id))
			return
		}
		if !found {
			notFound(w, id)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students?skip=0&limit=100.
//
// Success response (200 OK), in storage order:
//
//	[
//	  { "id": 1, "name": "Ada", ... },
//	  { "id": 2, "name": "Grace", ... }
//	]
//
// Returns [] rather than null when there are no students. skip and limit
// default to 0 and 100; anything but a non-negative integer is a 422.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, ok := queryInt(w, r, "skip", storage.DefaultSkip)
		if !ok {
			return
		}
		limit, ok := queryInt(w, r, "limit", storage.DefaultLimit)
		if !ok {
			return
		}
		slog.Info("getting students", slog.Int("skip", skip), slog.Int("limit", limit))

		students, err := store.ListStudents(r.Context(), skip, limit)
		if err != nil {
			internalError(w, "error getting students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}.
//
// Name and email are always replaced. Cohort and wellbeing_score change
// only when present in the body; an explicit null clears them:
//
//	{ "name": "Ada", "email": "ada@example.com" }                  cohort kept
//	{ "name": "Ada", "email": "ada@example.com", "cohort": null }  cohort cleared
//
// Success response (200 OK): the stored student after the update.
//
// Error responses:
//
//	400 Bad Request           new email belongs to another student
//	404 Not Found             unknown id
//	422 Unprocessable Entity  bad id, or empty, malformed or invalid body
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		in, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		existing, found, err := store.GetStudentByID(r.Context(), id)
		if err != nil {
			internalError(w, "error getting student", err, slog.Int64("id", id))
			return
		}
		if !found {
			notFound(w, id)
			return
		}

		if in.Email != existing.Email {
			holder, taken, err := store.GetStudentByEmail(r.Context(), in.Email)
			if err != nil {
				internalError(w, "error checking email", err, slog.Int64("id", id))
				return
			}
			if taken && holder.ID != id {
				response.WriteJSON(w, http.StatusBadRequest, response.Message(msgEmailTaken))
				return
			}
		}

		updated, found, err := store.UpdateStudent(r.Context(), id, in)
		if err != nil {
			internalError(w, "error updating student", err, slog.Int64("id", id))
			return
		}
		if !found {
			// deleted between the existence check and the update
			notFound(w, id)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}.
//
// Success response: 204 No Content with an empty body.
//
// Error responses:
//
//	404 Not Found             unknown id (also on a second delete)
//	422 Unprocessable Entity  id is not an integer
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		deleted, err := store.DeleteStudent(r.Context(), id)
		if err != nil {
			internalError(w, "error deleting student", err, slog.Int64("id", id))
			return
		}
		if !deleted {
			notFound(w, id)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.NoContent(w)
	}
}

// decodeStudent reads and validates the write shape. On failure it has
// already written a 422 and returns false. Malformed JSON, wrong types,
// trailing data and validator failures are all rejected here, before any
// storage call.
func decodeStudent(w http.ResponseWriter, r *http.Request) (types.StudentWrite, bool) {
	var in types.StudentWrite

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.Message("request body is empty"))
		return in, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.DecodeError(err))
		return in, false
	}

	// The body must hold exactly one JSON value; trailing whitespace is fine.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.Message("request body must contain a single JSON object"))
		return in, false
	}

	if err := in.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.WriteJSON(w, http.StatusUnprocessableEntity, response.ValidationError(verrs))
			return in, false
		}
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(err))
		return in, false
	}

	return in, true
}

// parseID extracts the {id} path segment. A non-integer id is a request
// validation failure (422), like a bad body.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.Message("invalid id: must be an integer"))
		return 0, false
	}
	return id, true
}

// queryInt reads a non-negative integer query parameter, falling back to
// def when it is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.Message("invalid %s: must be a non-negative integer", name))
		return 0, false
	}
	return v, true
}

func notFound(w http.ResponseWriter, id int64) {
	response.WriteJSON(w, http.StatusNotFound,
		response.Message("Student with id %d not found", id))
}

// internalError logs the storage failure and hides its details from the
// client.
func internalError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	slog.Error(msg, append(attrs, slog.String("error", err.Error()))...)
	response.WriteJSON(w, http.StatusInternalServerError,
		response.Message("internal server error"))
}

// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/wellbeing-api/internal/config"
	"github.com/aanand-mishra/wellbeing-api/internal/storage"
	"github.com/aanand-mishra/wellbeing-api/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// The timestamp default keeps millisecond precision; go-sqlite3 parses
// it back into a time.Time because the column is declared DATETIME.
const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id              INTEGER  PRIMARY KEY AUTOINCREMENT,
		name            TEXT     NOT NULL,
		email           TEXT     NOT NULL UNIQUE,
		cohort          TEXT,
		wellbeing_score REAL,
		"timestamp"     DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
	)
`

const selectColumns = `SELECT id, name, email, cohort, wellbeing_score, "timestamp" FROM students`

// SQLite is the concrete implementation of storage.Storage.
// *sql.DB is a connection pool and safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database named by cfg.DatabaseURL, creates the
// students table if it does not already exist, and returns a ready-to-use
// *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	dbCfg, err := cfg.Database()
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}
	if dbCfg.Driver != config.DriverSQLite {
		return nil, fmt.Errorf("sqlite.New: database_url is a %s url", dbCfg.Driver)
	}

	db, err := sql.Open("sqlite3", dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.New: apply %q: %w", stmt, err)
		}
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe to run on every start.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanStudent reads one row in selectColumns order.
func scanStudent(row rowScanner) (types.Student, error) {
	var (
		student types.Student
		cohort  sql.NullString
		score   sql.NullFloat64
	)

	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&cohort,
		&score,
		&student.Timestamp,
	); err != nil {
		return types.Student{}, err
	}

	if cohort.Valid {
		student.Cohort = &cohort.String
	}
	if score.Valid {
		student.WellbeingScore = &score.Float64
	}

	return student, nil
}

func (s *SQLite) ListStudents(ctx context.Context, skip, limit int) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, selectColumns+" LIMIT ? OFFSET ?")
	if err != nil {
		return nil, fmt.Errorf("ListStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	return students, nil
}

func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, bool, error) {
	return s.getOne(ctx, "GetStudentByID", selectColumns+" WHERE id = ? LIMIT 1", id)
}

func (s *SQLite) GetStudentByEmail(ctx context.Context, email string) (types.Student, bool, error) {
	return s.getOne(ctx, "GetStudentByEmail", selectColumns+" WHERE email = ? LIMIT 1", email)
}

func (s *SQLite) getOne(ctx context.Context, op, query string, arg any) (types.Student, bool, error) {
	stmt, err := s.Db.PrepareContext(ctx, query)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRowContext(ctx, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("%s: scan: %w", op, err)
	}

	return student, true, nil
}

func (s *SQLite) CreateStudent(ctx context.Context, in types.StudentWrite) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (name, email, cohort, wellbeing_score) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, in.Name, in.Email, in.Cohort.Ptr(), in.WellbeingScore.Ptr())
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	// Re-read so id and timestamp are exactly what SQLite stored.
	student, found, err := s.GetStudentByID(ctx, lastID)
	if err != nil {
		return types.Student{}, err
	}
	if !found {
		return types.Student{}, fmt.Errorf("CreateStudent: row %d vanished after insert", lastID)
	}

	return student, nil
}

func (s *SQLite) UpdateStudent(ctx context.Context, id int64, in types.StudentWrite) (types.Student, bool, error) {
	set := storage.UpdateAssignments(in)

	clauses := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+1)
	for _, a := range set {
		clauses = append(clauses, a.Column+" = ?")
		args = append(args, a.Value)
	}
	args = append(args, id)

	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET "+strings.Join(clauses, ", ")+" WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("UpdateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("UpdateStudent: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, false, fmt.Errorf("UpdateStudent: rows affected: %w", err)
	}
	if n == 0 {
		return types.Student{}, false, nil
	}

	return s.GetStudentByID(ctx, id)
}

func (s *SQLite) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: exec: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: rows affected: %w", err)
	}

	return n > 0, nil
}

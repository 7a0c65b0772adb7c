// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/wellbeing-api/internal/config"
	"github.com/aanand-mishra/wellbeing-api/internal/storage"
	"github.com/aanand-mishra/wellbeing-api/internal/types"
)

const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id              BIGSERIAL        PRIMARY KEY,
		name            TEXT             NOT NULL,
		email           TEXT             NOT NULL UNIQUE,
		cohort          TEXT,
		wellbeing_score DOUBLE PRECISION,
		"timestamp"     TIMESTAMPTZ      NOT NULL DEFAULT now()
	)
`

const returningColumns = `id, name, email, cohort, wellbeing_score, "timestamp"`

// Storage is shared by all handlers; the pool hands out one connection
// per statement.
type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

// New connects to the database named by cfg.DatabaseURL and creates the
// students table if it does not exist.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	dbCfg, err := cfg.Database()
	if err != nil {
		return nil, fmt.Errorf("postgres.New: %w", err)
	}
	if dbCfg.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("postgres.New: database_url is a %s url", dbCfg.Driver)
	}

	pool, err := pgxpool.New(ctx, dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Storage{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Storage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanStudent(row pgx.Row) (types.Student, error) {
	var student types.Student
	err := row.Scan(
		&student.ID, &student.Name, &student.Email,
		&student.Cohort, &student.WellbeingScore, &student.Timestamp,
	)
	return student, err
}

func (s *Storage) ListStudents(ctx context.Context, skip, limit int) ([]types.Student, error) {
	const query = `SELECT ` + returningColumns + ` FROM students LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, limit, skip)
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

func (s *Storage) GetStudentByID(ctx context.Context, id int64) (types.Student, bool, error) {
	const query = `SELECT ` + returningColumns + ` FROM students WHERE id = $1`
	return s.getOne(ctx, "GetStudentByID", query, id)
}

func (s *Storage) GetStudentByEmail(ctx context.Context, email string) (types.Student, bool, error) {
	const query = `SELECT ` + returningColumns + ` FROM students WHERE email = $1`
	return s.getOne(ctx, "GetStudentByEmail", query, email)
}

func (s *Storage) getOne(ctx context.Context, op, query string, args ...any) (types.Student, bool, error) {
	student, err := scanStudent(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("%s: scan: %w", op, err)
	}
	return student, true, nil
}

func (s *Storage) CreateStudent(ctx context.Context, in types.StudentWrite) (types.Student, error) {
	const query = `
		INSERT INTO students (name, email, cohort, wellbeing_score)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + returningColumns

	student, err := scanStudent(s.pool.QueryRow(ctx, query,
		in.Name, in.Email, in.Cohort.Ptr(), in.WellbeingScore.Ptr(),
	))
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}

	return student, nil
}

func (s *Storage) UpdateStudent(ctx context.Context, id int64, in types.StudentWrite) (types.Student, bool, error) {
	set := storage.UpdateAssignments(in)

	clauses := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		clauses = append(clauses, a.Column+" = $"+strconv.Itoa(i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := "UPDATE students SET " + strings.Join(clauses, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + returningColumns

	return s.getOne(ctx, "UpdateStudent", query, args...)
}

func (s *Storage) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: exec: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

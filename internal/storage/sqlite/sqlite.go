// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// By default the database lives in memory (see config.DefaultStoragePath),
// so it shares the memory backend's process-lifetime semantics while
// exercising real SQL transactions. Pointing storage_path at a file keeps
// the data around between runs, which is handy for local debugging.
//
// The pool is limited to one connection. Every View and Update therefore
// runs on that connection in turn, which serializes writes and keeps an
// in-memory database alive for as long as the pool is open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/config"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// schema has no UNIQUE constraints: the table is a plain record store and
// uniqueness is the handlers' job. AUTOINCREMENT guarantees ids are never
// reused, even after the highest row is deleted.
const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		roll_number TEXT    NOT NULL,
		email       TEXT    NOT NULL,
		mobile      TEXT    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_students_roll_number ON students (roll_number);
	CREATE INDEX IF NOT EXISTS idx_students_email ON students (email);
`

// New opens the database at cfg.StoragePath, creates the students table
// if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(cfg.StoragePath))
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// dsn asks the driver to start write transactions with BEGIN IMMEDIATE so
// a second process opening the same file cannot interleave with us.
func dsn(path string) string {
	if strings.Contains(path, "_txlock=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_txlock=immediate"
}

// View runs fn inside a transaction that is always rolled back.
func (s *SQLite) View(ctx context.Context, fn func(tx storage.Reader) error) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("View: begin: %w", err)
	}
	defer tx.Rollback()

	return fn(&sqlTx{ctx: ctx, tx: tx})
}

// Update runs fn inside a transaction and commits only if fn returns nil.
func (s *SQLite) Update(ctx context.Context, fn func(tx storage.Writer) error) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Update: begin: %w", err)
	}

	if err := fn(&sqlTx{ctx: ctx, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Update: commit: %w", err)
	}
	return nil
}

// Close closes the pool. For an in-memory database this discards the data.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// sqlTx adapts a *sql.Tx to storage.Writer.
type sqlTx struct {
	ctx context.Context
	tx  *sql.Tx
}

const selectColumns = "SELECT id, name, roll_number, email, mobile FROM students"

// queryOne runs a single-row SELECT. A miss is reported through the bool,
// not as an error.
func (t *sqlTx) queryOne(op, where string, arg any) (types.Student, bool, error) {
	var st types.Student

	err := t.tx.QueryRowContext(t.ctx,
		selectColumns+" WHERE "+where+" ORDER BY id LIMIT 1", arg,
	).Scan(&st.ID, &st.Name, &st.RollNumber, &st.Email, &st.Mobile)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, false, nil
	}
	if err != nil {
		return types.Student{}, false, fmt.Errorf("%s: scan: %w", op, err)
	}
	return st, true, nil
}

func (t *sqlTx) GetStudentByID(id int64) (types.Student, bool, error) {
	return t.queryOne("GetStudentByID", "id = ?", id)
}

func (t *sqlTx) GetStudentByRollNumber(rollNumber string) (types.Student, bool, error) {
	return t.queryOne("GetStudentByRollNumber", "roll_number = ?", rollNumber)
}

func (t *sqlTx) GetStudentByEmail(email string) (types.Student, bool, error) {
	return t.queryOne("GetStudentByEmail", "email = ?", email)
}

// GetStudents returns all rows ordered by id, which for an AUTOINCREMENT
// key is insertion order.
func (t *sqlTx) GetStudents() ([]types.Student, error) {
	rows, err := t.tx.QueryContext(t.ctx, selectColumns+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var st types.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.RollNumber, &st.Email, &st.Mobile); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

func (t *sqlTx) CreateStudent(in types.StudentInput) (types.Student, error) {
	result, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO students (name, roll_number, email, mobile) VALUES (?, ?, ?, ?)",
		in.Name, in.RollNumber, in.Email, in.Mobile,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return in.WithID(lastID), nil
}

func (t *sqlTx) UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error) {
	result, err := t.tx.ExecContext(t.ctx,
		"UPDATE students SET name = ?, roll_number = ?, email = ?, mobile = ? WHERE id = ?",
		in.Name, in.RollNumber, in.Email, in.Mobile, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := requireOneRow(result, "UpdateStudentByID", id); err != nil {
		return types.Student{}, err
	}
	return in.WithID(id), nil
}

func (t *sqlTx) DeleteStudentByID(id int64) error {
	result, err := t.tx.ExecContext(t.ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	return requireOneRow(result, "DeleteStudentByID", id)
}

func requireOneRow(result sql.Result, op string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, storage.ErrNotFound)
	}
	return nil
}

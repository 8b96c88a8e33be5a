// Package storage defines the Storage interface — a contract that any
// record-store backend must satisfy to work with this application.
//
// Handlers never call a backend directly. Every read happens inside View
// and every mutation inside Update, so a handler can run its uniqueness
// lookups and the mutation that depends on them as one atomic unit:
//
//	err := s.Update(ctx, func(tx storage.Writer) error {
//		if _, taken, err := tx.GetStudentByRollNumber(in.RollNumber); err != nil || taken {
//			...
//		}
//		created, err = tx.CreateStudent(in)
//		return err
//	})
//
// The store itself performs no uniqueness checks; it is a plain table.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-records-api/internal/types"
)

// ErrNotFound is returned by UpdateStudentByID and DeleteStudentByID when
// the id is absent. Lookups report a miss through their bool result instead.
var ErrNotFound = errors.New("student not found")

// Reader is the read side of a transaction.
type Reader interface {
	// GetStudentByID returns the record with id, if any.
	GetStudentByID(id int64) (types.Student, bool, error)

	// GetStudentByRollNumber returns the first record (in insertion order)
	// whose roll number equals rollNumber exactly.
	GetStudentByRollNumber(rollNumber string) (types.Student, bool, error)

	// GetStudentByEmail returns the first record whose email equals email
	// exactly. No case folding is applied.
	GetStudentByEmail(email string) (types.Student, bool, error)

	// GetStudents returns every record in insertion order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents() ([]types.Student, error)
}

// Writer is the read-write side of a transaction.
type Writer interface {
	Reader

	// CreateStudent stores in under the next id and returns the record.
	// Ids start at 1, strictly increase and are never reused.
	CreateStudent(in types.StudentInput) (types.Student, error)

	// UpdateStudentByID replaces every field except the id.
	// Returns ErrNotFound if id is absent.
	UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes the record. Returns ErrNotFound if id is absent.
	DeleteStudentByID(id int64) error
}

// Storage is the record-store contract.
type Storage interface {
	// View runs fn against a consistent snapshot. fn must not retain the
	// Reader after returning.
	View(ctx context.Context, fn func(tx Reader) error) error

	// Update runs fn with exclusive write access. Changes made by fn are
	// committed only if fn returns nil; otherwise none of them are visible.
	Update(ctx context.Context, fn func(tx Writer) error) error

	// Close releases any resources held by the backend.
	Close() error
}

// Count returns the number of stored records.
func Count(ctx context.Context, s Storage) (int, error) {
	var n int
	err := s.View(ctx, func(tx Reader) error {
		students, err := tx.GetStudents()
		n = len(students)
		return err
	})
	return n, err
}

// Package student contains all HTTP handlers related to the Student resource.
//
// Each exported function is a factory: it receives the storage once, at
// route registration, and returns the http.HandlerFunc the router calls on
// every request:
//
//	r.Post("/api/students", student.New(storage))
//
// Create and update run their uniqueness lookups and the mutation inside a
// single storage.Update, so two concurrent requests can never both claim
// the same roll number or email.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
	"github.com/aanand-mishra/student-records-api/internal/validation"
)

var errNotFound = &apperr.NotFoundError{Message: "Student not found"}

// New handles POST /api/students.
//
// Request body (JSON):
//
//	{ "name": "John Doe", "rollNumber": "R1001", "email": "john.doe@example.com", "mobile": "1234567890" }
//
// Responses:
//
//	201 Created   — data is the stored student, including its new id
//	400           — empty/malformed body or failed validation
//	409 Conflict  — roll number taken (checked first), or email taken
func New(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		in, err := decodeInput(r)
		if err != nil {
			response.WriteError(w, r, err, "Failed to create student")
			return
		}

		var created types.Student
		err = s.Update(r.Context(), func(tx storage.Writer) error {
			if err := ensureUnique(tx, in, 0); err != nil {
				return err
			}
			var err error
			created, err = tx.CreateStudent(in)
			return err
		})
		if err != nil {
			response.WriteError(w, r, err, "Failed to create student")
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK("Student added successfully", created))
	}
}

// GetList handles GET /api/students.
// data is an array of every student in insertion order; [] when empty.
func GetList(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		var students []types.Student
		err := s.View(r.Context(), func(tx storage.Reader) error {
			var err error
			students, err = tx.GetStudents()
			return err
		})
		if err != nil {
			response.WriteError(w, r, err, "Failed to retrieve students")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK("Students retrieved successfully", students))
	}
}

// GetByID handles GET /api/students/{id}.
//
//	400 — id is not an integer (checked before any lookup)
//	404 — no student with that id
func GetByID(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			response.WriteError(w, r, err, "Failed to retrieve student")
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		var student types.Student
		err = s.View(r.Context(), func(tx storage.Reader) error {
			st, ok, err := tx.GetStudentByID(id)
			if err != nil {
				return err
			}
			if !ok {
				return errNotFound
			}
			student = st
			return nil
		})
		if err != nil {
			response.WriteError(w, r, err, "Failed to retrieve student")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK("Student retrieved successfully", student))
	}
}

// Update handles PUT /api/students/{id}.
// All four fields are required; there is no partial update.
//
// Checks, in order: id format (400), body (400), existence (404), roll
// number held by another student (409), email held by another student (409).
// Keeping a student's own roll number or email is not a conflict.
func Update(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			response.WriteError(w, r, err, "Failed to update student")
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		in, err := decodeInput(r)
		if err != nil {
			response.WriteError(w, r, err, "Failed to update student")
			return
		}

		var updated types.Student
		err = s.Update(r.Context(), func(tx storage.Writer) error {
			_, ok, err := tx.GetStudentByID(id)
			if err != nil {
				return err
			}
			if !ok {
				return errNotFound
			}
			if err := ensureUnique(tx, in, id); err != nil {
				return err
			}
			updated, err = tx.UpdateStudentByID(id, in)
			return err
		})
		if err != nil {
			response.WriteError(w, r, mapNotFound(err), "Failed to update student")
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK("Student updated successfully", updated))
	}
}

// Delete handles DELETE /api/students/{id}.
// On success the envelope carries no data. The id is never handed out again.
func Delete(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			response.WriteError(w, r, err, "Failed to delete student")
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		err = s.Update(r.Context(), func(tx storage.Writer) error {
			return tx.DeleteStudentByID(id)
		})
		if err != nil {
			response.WriteError(w, r, mapNotFound(err), "Failed to delete student")
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK("Student deleted successfully", nil))
	}
}

// parseID reads the {id} path parameter. Anything that is not a base-10
// integer is a 400, never a 404.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &apperr.BadRequestError{Message: "Invalid student ID format"}
	}
	return id, nil
}

// decodeInput reads and validates the JSON body shared by create and update.
func decodeInput(r *http.Request) (types.StudentInput, error) {
	var in types.StudentInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		return in, &apperr.BadRequestError{Message: "Request body is empty"}
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return in, &apperr.BadRequestError{
			Message: fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit),
		}
	}
	if err != nil {
		return in, &apperr.BadRequestError{Message: "Invalid JSON body: " + err.Error()}
	}

	return validation.Student(in)
}

// ensureUnique rejects in if its roll number or email belongs to a student
// other than self. self is 0 on create; ids start at 1. Only the first
// conflict is reported, roll number before email.
func ensureUnique(tx storage.Reader, in types.StudentInput, self int64) error {
	other, ok, err := tx.GetStudentByRollNumber(in.RollNumber)
	if err != nil {
		return err
	}
	if ok && other.ID != self {
		msg := fmt.Sprintf("Student with roll number %s already exists", in.RollNumber)
		if self != 0 {
			msg = fmt.Sprintf("Roll number %s is already assigned to another student", in.RollNumber)
		}
		return &apperr.ConflictError{Field: "rollNumber", Value: in.RollNumber, Message: msg}
	}

	other, ok, err = tx.GetStudentByEmail(in.Email)
	if err != nil {
		return err
	}
	if ok && other.ID != self {
		msg := fmt.Sprintf("Student with email %s already exists", in.Email)
		if self != 0 {
			msg = fmt.Sprintf("Email %s is already assigned to another student", in.Email)
		}
		return &apperr.ConflictError{Field: "email", Value: in.Email, Message: msg}
	}

	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errNotFound
	}
	return err
}

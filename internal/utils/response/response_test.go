package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteJSON_OmitsNilData(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, OK("Student deleted successfully", nil)))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Student deleted successfully", body["message"])
	assert.NotContains(t, body, "data")
}

func TestWriteJSON_KeepsEmptyList(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, OK("ok", []int{})))

	body := decode(t, rec)
	assert.Equal(t, []any{}, body["data"])
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"conflict", &apperr.ConflictError{Message: "Student with email a@b.co already exists"}, http.StatusConflict, "Student with email a@b.co already exists"},
		{"not found", &apperr.NotFoundError{Message: "Student not found"}, http.StatusNotFound, "Student not found"},
		{"unknown", errors.New("database is locked"), http.StatusInternalServerError, "Failed to create student"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/students", nil)

			WriteError(rec, req, tt.err, "Failed to create student")

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, body, "data")
		})
	}
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

func validInput() types.StudentInput {
	return types.StudentInput{
		Name:       "John Doe",
		RollNumber: "R1001",
		Email:      "john.doe@example.com",
		Mobile:     "1234567890",
	}
}

func TestStudent_Valid(t *testing.T) {
	in := validInput()
	in.Name = "  John Doe "
	in.Email = "john.doe@example.com\n"

	got, err := Student(in)
	require.NoError(t, err)
	assert.Equal(t, validInput(), got)
}

func TestStudent_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.StudentInput)
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(in *types.StudentInput) { in.Name = "" },
			message: "Validation error: name is required",
		},
		{
			name:    "whitespace name",
			mutate:  func(in *types.StudentInput) { in.Name = "   " },
			message: "Validation error: name is required",
		},
		{
			name:    "short name",
			mutate:  func(in *types.StudentInput) { in.Name = "J" },
			message: "Validation error: name must be at least 2 characters",
		},
		{
			name:    "short roll number",
			mutate:  func(in *types.StudentInput) { in.RollNumber = "R" },
			message: "Validation error: rollNumber must be at least 2 characters",
		},
		{
			name:    "bad email",
			mutate:  func(in *types.StudentInput) { in.Email = "not-an-email" },
			message: "Validation error: email must be a valid email address",
		},
		{
			name:    "short mobile",
			mutate:  func(in *types.StudentInput) { in.Mobile = "12345" },
			message: "Validation error: mobile must be at least 10 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := Student(in)
			require.Error(t, err)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestStudent_ReportsEveryField(t *testing.T) {
	_, err := Student(types.StudentInput{Name: "J", Email: "nope", Mobile: "1"})
	require.Error(t, err)

	assert.Equal(t,
		"Validation error: name must be at least 2 characters; rollNumber is required; "+
			"email must be a valid email address; mobile must be at least 10 characters",
		err.Error())
}

func TestStudent_NameLengthCountsCharacters(t *testing.T) {
	in := validInput()
	in.Name = "Żó"

	_, err := Student(in)
	assert.NoError(t, err)
}

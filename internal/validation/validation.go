// Package validation checks the shape of student input before it reaches
// storage. It knows nothing about store state: uniqueness is enforced by
// the handlers.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves every request.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names ("rollNumber") instead of the Go
	// names ("RollNumber") so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Student normalizes in and checks it against the StudentInput rules.
//
// On failure it returns an *apperr.ValidationError whose message names
// every violated field, not just the first one.
func Student(in types.StudentInput) (types.StudentInput, error) {
	in = in.Normalize()

	err := validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.StudentInput{}, fmt.Errorf("validation.Student: %w", err)
	}
	return types.StudentInput{}, &apperr.ValidationError{Message: Message(verrs)}
}

// Message converts validator field errors into one human-readable line.
//
// Example output:
//
//	Validation error: name must be at least 2 characters; email must be a valid email address
func Message(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return "Validation error: " + strings.Join(msgs, "; ")
}

// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "strings"

// Student is a stored student record.
//
// ID is assigned by the storage layer and never changes. The other four
// fields are replaced wholesale on update.
type Student struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
}

// StudentInput is the body accepted by create and update.
//
// The validate:"..." tags are checked by the go-playground/validator
// package (see internal/validation). Create and update share the same
// rules: there is no partial update.
type StudentInput struct {
	Name       string `json:"name"       validate:"required,min=2"`
	RollNumber string `json:"rollNumber" validate:"required,min=2"`
	Email      string `json:"email"      validate:"required,email"`
	Mobile     string `json:"mobile"     validate:"required,min=10"`
}

// Normalize trims surrounding whitespace from every field.
func (in StudentInput) Normalize() StudentInput {
	return StudentInput{
		Name:       strings.TrimSpace(in.Name),
		RollNumber: strings.TrimSpace(in.RollNumber),
		Email:      strings.TrimSpace(in.Email),
		Mobile:     strings.TrimSpace(in.Mobile),
	}
}

// WithID builds the stored record for an input.
func (in StudentInput) WithID(id int64) Student {
	return Student{
		ID:         id,
		Name:       in.Name,
		RollNumber: in.RollNumber,
		Email:      in.Email,
		Mobile:     in.Mobile,
	}
}

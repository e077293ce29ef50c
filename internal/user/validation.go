package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits, counted in characters.
const (
	MinEmailLength    = 5
	MaxEmailLength    = 150
	MinPasswordLength = 8
	MaxPasswordLength = 150
	MaxNameLength     = 150
	MaxBioLength      = 2000
	MaxPhotoLength    = 2000
)

// ErrInvalidInput matches every *ValidationError
var ErrInvalidInput = errors.New("invalid input")

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError names one rejected field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

type validator struct {
	fields []FieldError
}

func (v *validator) check(ok bool, field, reason string) {
	if !ok {
		v.fields = append(v.fields, FieldError{Field: field, Reason: reason})
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func lengthBetween(s string, minLen, maxLen int) bool {
	n := utf8.RuneCountInString(s)
	return n >= minLen && n <= maxLen
}

// ValidateCredentials checks an email and a plaintext password before the password is hashed
func ValidateCredentials(email, password string) error {
	v := &validator{}
	v.check(lengthBetween(email, MinEmailLength, MaxEmailLength), "email",
		fmt.Sprintf("must be %d-%d characters", MinEmailLength, MaxEmailLength))
	v.check(emailPattern.MatchString(email), "email", "must look like name@domain.tld")
	v.check(lengthBetween(password, MinPasswordLength, MaxPasswordLength), "password",
		fmt.Sprintf("must be %d-%d characters", MinPasswordLength, MaxPasswordLength))
	return v.err()
}

// ValidateProfile checks the editable profile fields
func ValidateProfile(p Profile) error {
	v := &validator{}
	v.check(utf8.RuneCountInString(p.Name) <= MaxNameLength, "name",
		fmt.Sprintf("must be at most %d characters", MaxNameLength))
	v.check(utf8.RuneCountInString(p.Bio) <= MaxBioLength, "bio",
		fmt.Sprintf("must be at most %d characters", MaxBioLength))
	v.check(utf8.RuneCountInString(p.Photo) <= MaxPhotoLength, "photo",
		fmt.Sprintf("must be at most %d characters", MaxPhotoLength))
	return v.err()
}

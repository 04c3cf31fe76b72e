// Package validation checks drafts before they are allowed to become contacts.
// It only checks the syntax of each field; name conflicts are detected by the
// contact service when the draft is added.
package validation

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cintyy73/template-todo-list/internal/model"
)

const (
	FieldName  = "name"
	FieldPhone = "phone"

	MinNameLength  = 2
	MinPhoneLength = 8
)

const (
	MsgNameRequired  = "name required"
	MsgNameTooShort  = "name too short"
	MsgPhoneRequired = "phone required"
	MsgPhoneTooShort = "phone too short"
)

// ErrValidation is matched by every *Error via errors.Is.
var ErrValidation = errors.New("validation failed")

// Result is the outcome of Validate. FieldErrors is nil when Valid is true.
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// Error carries the per-field messages of a rejected draft.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *Error) Is(target error) bool { return target == ErrValidation }

// Validate checks the trimmed name and phone of a draft.
func Validate(d model.Draft) Result {
	fields := make(map[string]string)

	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		fields[FieldName] = MsgNameRequired
	case utf8.RuneCountInString(name) < MinNameLength:
		fields[FieldName] = MsgNameTooShort
	}

	phone := strings.TrimSpace(d.Phone)
	switch {
	case phone == "":
		fields[FieldPhone] = MsgPhoneRequired
	case utf8.RuneCountInString(phone) < MinPhoneLength:
		fields[FieldPhone] = MsgPhoneTooShort
	}

	if len(fields) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, FieldErrors: fields}
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Fields: r.FieldErrors}
}

package edge

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Field string

const (
	FieldName      Field = "name"
	FieldTags      Field = "tags"
	FieldEndpoints Field = "endpoints"
)

// FieldError is a validation failure attached to one form field.
type FieldError struct {
	Field   Field
	Message string
}

func (e FieldError) Error() string { return string(e.Field) + ": " + e.Message }

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrInvalidGroup) match.
func (v ValidationErrors) Unwrap() error { return ErrInvalidGroup }

// For returns the first message for f, or "".
func (v ValidationErrors) For(f Field) string {
	for _, e := range v {
		if e.Field == f {
			return e.Message
		}
	}
	return ""
}

// Validate checks the rules a group must satisfy before it can be saved.
// Only the criteria of the active membership mode are checked.
func Validate(g Group) ValidationErrors {
	var errs ValidationErrors
	name := strings.TrimSpace(g.Name)
	switch {
	case name == "":
		errs = append(errs, FieldError{Field: FieldName, Message: "name is required"})
	case utf8.RuneCountInString(name) > MaxNameLength:
		errs = append(errs, FieldError{Field: FieldName, Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength)})
	}

	if g.Dynamic {
		if len(g.TagIDs) == 0 {
			errs = append(errs, FieldError{Field: FieldTags, Message: "at least one tag is required"})
		}
	} else if len(g.Endpoints) == 0 {
		errs = append(errs, FieldError{Field: FieldEndpoints, Message: "at least one endpoint is required"})
	}
	return errs
}

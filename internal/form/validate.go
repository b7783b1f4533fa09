package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"atrium/internal/content"
)

// Validation errors. The page shows err.Error() under the offending field,
// so the messages are written for people, not logs.
var (
	ErrRequired    = errors.New("this field is required")
	ErrEmailFormat = errors.New("enter a valid email address")
	ErrPhoneFormat = errors.New("enter a phone like (11) 98765-4321")
	ErrChoice      = errors.New("choose one of the listed options")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)
)

// Validate checks one field's value against its spec. Optional fields accept
// blank values; everything else is validated after trimming surrounding
// whitespace. Phone values are validated in their masked shape.
func Validate(spec content.FieldSpec, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if spec.Required {
			return ErrRequired
		}
		return nil
	}

	switch spec.Type {
	case content.FieldEmail:
		if !emailPattern.MatchString(trimmed) {
			return ErrEmailFormat
		}
	case content.FieldPhone:
		if !phonePattern.MatchString(trimmed) {
			return ErrPhoneFormat
		}
	case content.FieldSelect:
		for _, opt := range spec.Options {
			if trimmed == opt {
				return nil
			}
		}
		return ErrChoice
	}
	return nil
}

// Result maps field names to their validation errors. Valid fields are
// absent.
type Result map[string]error

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r) == 0 }

// ValidateAll checks every field and returns the failures.
func ValidateAll(fields []content.FieldSpec, values map[string]string) Result {
	res := make(Result)
	for _, f := range fields {
		if err := Validate(f, values[f.Name]); err != nil {
			res[f.Name] = err
		}
	}
	return res
}

// FirstInvalid returns the name of the first field, in form order, that
// failed validation, or "" when all passed. Focus lands there after a
// rejected submit.
func FirstInvalid(fields []content.FieldSpec, res Result) string {
	for _, f := range fields {
		if _, bad := res[f.Name]; bad {
			return f.Name
		}
	}
	return ""
}

// Describe renders a failure for the announcer: "Email: enter a valid email
// address".
func Describe(spec content.FieldSpec, err error) string {
	return fmt.Sprintf("%s: %s", spec.Label, err)
}

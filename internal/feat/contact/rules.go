package contact

import (
	"regexp"
	"strings"

	"github.com/foliosite/folio/pkg/fl/validation"
)

// Field identifiers for the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// emailPattern is a permissive local-part@domain.tld heuristic, not an
// RFC-compliant address validator.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Rule is the static validation configuration for one form field.
type Rule struct {
	Required        bool
	MinLength       int
	MaxLength       int
	Pattern         *regexp.Regexp
	RequiredMessage string
	MinMessage      string
	MaxMessage      string
	PatternMessage  string
}

// rules is loaded once and immutable. Evaluation order per field is
// required, then minimum length, then maximum length, then pattern;
// the first failing check wins.
var rules = map[string]Rule{
	FieldName: {
		Required:        true,
		MinLength:       2,
		MaxLength:       100,
		RequiredMessage: "name is required",
		MinMessage:      "name must be at least 2 characters",
		MaxMessage:      "name must be at most 100 characters",
	},
	FieldEmail: {
		Required:        true,
		MaxLength:       254,
		Pattern:         emailPattern,
		RequiredMessage: "email is required",
		MaxMessage:      "email must be at most 254 characters",
		PatternMessage:  "email must look like name@example.com",
	},
	FieldSubject: {
		Required:        true,
		MinLength:       3,
		MaxLength:       200,
		RequiredMessage: "subject is required",
		MinMessage:      "subject must be at least 3 characters",
		MaxMessage:      "subject must be at most 200 characters",
	},
	FieldMessage: {
		Required:        true,
		MinLength:       10,
		MaxLength:       5000,
		RequiredMessage: "message is required",
		MinMessage:      "message must be at least 10 characters",
		MaxMessage:      "message must be at most 5000 characters",
	},
}

// FormFields is the fixed set of fields checked by ValidateForm.
var FormFields = []string{FieldName, FieldEmail, FieldSubject, FieldMessage}

// ValidateField checks one raw input against its field's rule. A zero
// ValidationError means the value is valid. Unknown fields are valid.
// Length and pattern checks run on the whitespace-trimmed value.
func ValidateField(fieldID, raw string) validation.ValidationError {
	rule, ok := rules[fieldID]
	if !ok {
		return validation.ValidationError{}
	}

	trimmed := strings.TrimSpace(raw)

	if rule.Required {
		if err := validation.RequiredString(fieldID, trimmed); !err.IsZero() {
			err.Message = rule.RequiredMessage
			return err
		}
	}
	if rule.MinLength > 0 {
		if err := validation.StringMinLength(fieldID, trimmed, rule.MinLength); !err.IsZero() {
			err.Message = rule.MinMessage
			return err
		}
	}
	if rule.MaxLength > 0 {
		if err := validation.StringMaxLength(fieldID, trimmed, rule.MaxLength); !err.IsZero() {
			err.Message = rule.MaxMessage
			return err
		}
	}
	if rule.Pattern != nil {
		if err := validation.StringPattern(fieldID, trimmed, rule.Pattern, rule.PatternMessage); !err.IsZero() {
			return err
		}
	}

	return validation.ValidationError{}
}

// ValidateForm checks every field in FormFields and accumulates all
// failures. The form is valid iff the result is empty; First() on the
// result identifies the field to focus.
func ValidateForm(values map[string]string) validation.ValidationErrors {
	var errs validation.ValidationErrors
	for _, field := range FormFields {
		if err := ValidateField(field, values[field]); !err.IsZero() {
			errs.AddError(err)
		}
	}
	return errs
}

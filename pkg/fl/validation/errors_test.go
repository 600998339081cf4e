package validation

import (
	"regexp"
	"testing"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"required with value", IsRequired("hello"), true},
		{"required empty", IsRequired(""), false},
		{"required whitespace only", IsRequired("   \t\n"), false},
		{"min length met", MinLength("abc", 3), true},
		{"min length not met", MinLength("ab", 3), false},
		{"max length met", MaxLength("abc", 3), true},
		{"max length exceeded", MaxLength("abcd", 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+$`)

	if !Matches("abc", pattern) {
		t.Error("Matches(abc) = false, want true")
	}
	if Matches("abc123", pattern) {
		t.Error("Matches(abc123) = true, want false")
	}
}

func TestValidatorFunctions(t *testing.T) {
	if err := RequiredString("name", ""); err.IsZero() {
		t.Error("RequiredString on empty should fail")
	}
	if err := RequiredString("name", "Jo"); !err.IsZero() {
		t.Errorf("RequiredString on value should pass, got %v", err)
	}

	if err := StringMinLength("subject", "ab", 3); err.IsZero() {
		t.Error("StringMinLength below min should fail")
	}
	if err := StringMaxLength("subject", "abcd", 3); err.IsZero() {
		t.Error("StringMaxLength above max should fail")
	}

	pattern := regexp.MustCompile(`^\d+$`)
	err := StringPattern("code", "12a", pattern, "must be digits")
	if err.IsZero() {
		t.Error("StringPattern mismatch should fail")
	}
	if err.Message != "must be digits" {
		t.Errorf("StringPattern message = %q, want configured message", err.Message)
	}
}

func TestValidationErrorsAccumulation(t *testing.T) {
	var errs ValidationErrors

	if errs.HasErrors() {
		t.Error("empty collection should have no errors")
	}

	errs.Add("name", "is required")
	errs.AddError(ValidationError{Field: "email", Rule: "Pattern", Message: "invalid"})

	if !errs.HasErrors() {
		t.Error("collection should have errors")
	}
	if got := errs.First().Field; got != "name" {
		t.Errorf("First().Field = %q, want name", got)
	}
	if got := errs.ByField("email"); got != "invalid" {
		t.Errorf("ByField(email) = %q, want invalid", got)
	}
	if got := len(errs.Fields()); got != 2 {
		t.Errorf("Fields() length = %d, want 2", got)
	}

	m := errs.AsMap()
	if len(m["name"]) != 1 || m["name"][0] != "is required" {
		t.Errorf("AsMap()[name] = %v", m["name"])
	}
}

// Package validate checks agent fields before they reach the store.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eldtechnologies/agentdesk/internal/models"
)

// phoneRegex allows an optional leading plus followed by digits, whitespace,
// hyphens and parentheses.
var phoneRegex = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// messages maps a JSON field name to the violation reported for it.
var messages = map[string]string{
	"firstName":    "First name required",
	"lastName":     "Last name required",
	"email":        "Invalid email format",
	"mobileNumber": "Invalid phone number",
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned when one or more fields fail validation.
type Errors struct {
	Violations []Violation
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether a violation was recorded for field.
func (e *Errors) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so violations line up with the request body.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := val.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return val
}

// Agent validates every field of f and returns f unchanged when all pass.
// Otherwise it returns an *Errors listing violations in field order.
func Agent(f models.AgentFields) (models.AgentFields, error) {
	err := structValidator.Struct(f)
	if err == nil {
		return f, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.AgentFields{}, err
	}

	out := &Errors{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		out.Violations = append(out.Violations, Violation{Field: fe.Field(), Message: msg})
	}
	return models.AgentFields{}, out
}

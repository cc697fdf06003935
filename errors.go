package agentconf

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for validation failures.
const (
	ErrCodeRequired = "required"
)

var (
	// ErrNoProviders is returned by NewChain when no providers are supplied.
	ErrNoProviders = errors.New("agentconf: no configuration providers specified")

	// ErrMalformed marks a provider whose source holds unparseable values.
	// Providers wrap it; the chain skips such providers.
	ErrMalformed = errors.New("agentconf: configuration source is malformed")

	// ErrMandatoryMissing is matched by *ValidationError via errors.Is.
	ErrMandatoryMissing = errors.New("agentconf: mandatory agent properties are missing")
)

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "mandatory agent properties are missing: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("mandatory agent properties are missing: 1 error\n")
	} else {
		fmt.Fprintf(&b, "mandatory agent properties are missing: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Is reports whether target is ErrMandatoryMissing.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMandatoryMissing
}

// FieldError represents a single field validation failure.
type FieldError struct {
	FieldPath string // Dot notation (e.g., "Server.Hostname")
	Code      string // Error code (e.g., "required")
	Message   string // Human-readable description
}

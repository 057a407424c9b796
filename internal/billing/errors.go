package billing

import "fmt"

// ValidationKind classifies an invoice assembly failure.
type ValidationKind string

const (
	// MissingClientField means a required client detail (name, email,
	// phone) was empty.
	MissingClientField ValidationKind = "missing_client_field"

	// InvalidLineItem means a line item is missing its description or has
	// a non-positive unit price.
	InvalidLineItem ValidationKind = "invalid_line_item"

	// MissingAccount means the owner has bank accounts configured but the
	// invoice does not name a payment destination.
	MissingAccount ValidationKind = "missing_account"
)

// ValidationError is raised by AssembleInvoice before any store call.
// Creation-time validation is strict where display-time normalization is
// lenient: the user can always correct the input and retry.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func validationErr(kind ValidationKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

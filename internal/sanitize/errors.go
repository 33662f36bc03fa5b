package sanitize

import "fmt"

// SchemaValidationError is returned when generation output cannot be repaired into a valid record.
type SchemaValidationError struct {
	Message string
	Cause   error
}

func (e *SchemaValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("schema validation error: %s", e.Message)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Cause
}

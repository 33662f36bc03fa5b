// Package extraction turns uploaded PDF documents into plain text plus embedded hyperlinks.
package extraction

import "fmt"

// ExtractionError represents a document that could not be opened or parsed at all
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

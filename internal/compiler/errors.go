// Package compiler runs the external LaTeX toolchain in isolated scratch directories.
package compiler

import "fmt"

// Kind distinguishes why a compilation produced no PDF.
type Kind string

// Compilation failure kinds.
const (
	// KindContent means the compiler ran and left a log but no PDF: the source is bad.
	KindContent Kind = "content"
	// KindToolchain means the compiler is missing or produced neither PDF nor log.
	KindToolchain Kind = "toolchain"
	// KindTimeout means a pass exceeded the compile timeout and was killed.
	KindTimeout Kind = "timeout"
	// KindCanceled means the caller's context ended first.
	KindCanceled Kind = "canceled"
)

// CompilationError reports a compilation that produced no PDF.
// Log holds the full compiler log when one was written.
type CompilationError struct {
	Kind    Kind
	Message string
	Log     string
	Cause   error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error (%s): %s", e.Kind, e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

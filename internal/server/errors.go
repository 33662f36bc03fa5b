package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/compiler"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/sanitize"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotConfigured indicates a route whose backing service is disabled
type ErrNotConfigured struct {
	Feature string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrorBody is the JSON payload of a failed request.
// Compilation failures carry their kind and the compiler log as the detail.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Log    string `json:"log,omitempty"`
}

// errorBody builds the payload describing err.
func errorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var compileErr *compiler.CompilationError
	if errors.As(err, &compileErr) {
		body.Kind = string(compileErr.Kind)
		body.Log = compileErr.Log
	}
	return body
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var (
		validationErr *ErrValidation
		notConfigured *ErrNotConfigured
		extractionErr *extraction.ExtractionError
		templateErr   *rendering.TemplateError
		compileErr    *compiler.CompilationError
		gatewayErr    *llm.GatewayError
		schemaErr     *sanitize.SchemaValidationError
		fetchErr      *fetch.Error
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &extractionErr), errors.As(err, &templateErr):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &notConfigured):
		return http.StatusNotImplemented
	case errors.As(err, &compileErr):
		switch compileErr.Kind {
		case compiler.KindContent:
			return http.StatusUnprocessableEntity
		case compiler.KindTimeout:
			return http.StatusGatewayTimeout
		case compiler.KindCanceled:
			return http.StatusRequestTimeout
		default:
			return http.StatusServiceUnavailable
		}
	case errors.As(err, &gatewayErr):
		if gatewayErr.Kind == llm.KindUnavailable {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	case errors.As(err, &schemaErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

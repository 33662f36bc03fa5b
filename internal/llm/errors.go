package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so callers can choose a fallback.
type ErrorKind string

const (
	// KindUnavailable means no provider handle could be initialized or the gateway was closed.
	KindUnavailable ErrorKind = "unavailable"
	// KindParse means the provider answered but the text was not valid JSON.
	KindParse ErrorKind = "parse"
	// KindProvider means the provider call itself failed (network, quota, timeout).
	KindProvider ErrorKind = "provider"
)

// GatewayError is returned by every failed GenerateJSON call.
type GatewayError struct {
	Kind   ErrorKind
	Reason string
	Cause  error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm %s error: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("llm %s error: %s", e.Kind, e.Reason)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// IsUnavailable reports whether err is a gateway unavailability error.
func IsUnavailable(err error) bool {
	return hasKind(err, KindUnavailable)
}

// IsParse reports whether err is a gateway parse error.
func IsParse(err error) bool {
	return hasKind(err, KindParse)
}

// IsProvider reports whether err is a provider call failure.
func IsProvider(err error) bool {
	return hasKind(err, KindProvider)
}

func hasKind(err error, kind ErrorKind) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == kind
}

package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrCategoryMismatch = errors.New("component does not belong to category")
	ErrCapacityExceeded = errors.New("category limit reached")

	// ErrNotForwarded is returned by a Submitter that accepted a request
	// without handing it to anyone.
	ErrNotForwarded      = errors.New("build request not forwarded")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// ValidationError lists the inputs that blocked a save or a request. It is
// never fatal: the caller surfaces Fields to the user and keeps the session.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	msg := "validation failed"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.Fields, ", ") + ")"
	}
	return msg
}

// StaleReference is a saved part that no longer resolves to a live catalog
// component. Its price and name are kept, its attributes are unknown.
type StaleReference struct {
	Category Category     `json:"category"`
	Ref      ComponentRef `json:"ref"`
}

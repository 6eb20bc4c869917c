package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind = errors.New("unknown transaction kind")
	ErrPageSize    = errors.New("page size must be positive")
)

// MalformedRecordError marks a raw record that could not be normalized.
// The record is dropped from aggregates; the error is kept for reporting.
type MalformedRecordError struct {
	Kind  TransactionKind
	Index int
	ID    string
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	ref := e.ID
	if ref == "" {
		ref = fmt.Sprintf("#%d", e.Index)
	}
	if e.Field == "" {
		return fmt.Sprintf("malformed %s record %s: %v", e.Kind, ref, e.Err)
	}
	return fmt.Sprintf("malformed %s record %s: field %s=%q: %v", e.Kind, ref, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ValidationError is a client-side rejection of a mutation payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

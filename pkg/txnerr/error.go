/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txnerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is returned by the builders, the submitter and the pipeline for every failure that is not a
// transport failure. Transport failures are returned unchanged by the pool capability.
type Error struct {
	ErrorCode      Code
	ErrorComponent Component
	Operation      string
	IncorrectValue string
	Reason         string
	Err            error
}

// ErrorJSON is a helper struct for JSON encoding of Error.
type ErrorJSON struct {
	ErrorCode      Code      `json:"error"`
	Kind           Kind      `json:"kind,omitempty"`
	Component      Component `json:"component,omitempty"`
	Operation      string    `json:"operation,omitempty"`
	IncorrectValue string    `json:"incorrect_value,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Description    string    `json:"error_description,omitempty"`
}

// NewError returns new error with the given code raised by component wrapping err. The kind of the
// error is the kind of code.
func NewError(code Code, component Component, err error) *Error {
	return &Error{
		ErrorCode:      code,
		ErrorComponent: component,
		Err:            err,
	}
}

// NewLedgerRejected returns new error carrying the ledger's rejection reason.
func NewLedgerRejected(reason string) *Error {
	return &Error{
		ErrorCode:      LedgerRejected,
		ErrorComponent: SubmitterComponent,
		Reason:         reason,
		Err:            fmt.Errorf("ledger rejected request: %s", reason),
	}
}

func (e *Error) MarshalJSON() ([]byte, error) {
	var description string
	if e.Err != nil {
		description = e.Err.Error()
	}

	return json.Marshal(&ErrorJSON{
		ErrorCode:      e.ErrorCode,
		Kind:           e.ErrorCode.Kind(),
		Component:      e.ErrorComponent,
		Operation:      e.Operation,
		IncorrectValue: e.IncorrectValue,
		Reason:         e.Reason,
		Description:    description,
	})
}

func (e *Error) Error() string {
	var description []string

	if e.ErrorComponent != "" {
		description = append(description, fmt.Sprintf("component: %s", e.ErrorComponent))
	}

	if e.Operation != "" {
		description = append(description, fmt.Sprintf("operation: %s", e.Operation))
	}

	if e.IncorrectValue != "" {
		description = append(description, fmt.Sprintf("incorrect value: %s", e.IncorrectValue))
	}

	return fmt.Sprintf("%s[%s]: %v", e.ErrorCode, strings.Join(description, "; "), e.Err)
}

func (e *Error) WithComponent(component Component) *Error {
	e.ErrorComponent = component

	return e
}

func (e *Error) WithOperation(operation string) *Error {
	e.Operation = operation

	return e
}

func (e *Error) WithIncorrectValue(incorrectValue string) *Error {
	e.IncorrectValue = incorrectValue

	return e
}

func (e *Error) WithErrorPrefix(errPrefix string) *Error {
	e.Err = fmt.Errorf("%s: %w", errPrefix, e.Err)

	return e
}

func (e *Error) Code() Code {
	return e.ErrorCode
}

func (e *Error) Kind() Kind {
	return e.ErrorCode.Kind()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err, or any error it wraps, is an *Error with the given code.
func Is(err error, code Code) bool {
	var txnErr *Error

	if !errors.As(err, &txnErr) {
		return false
	}

	return txnErr.ErrorCode == code
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var txnErr *Error

	if !errors.As(err, &txnErr) {
		return Unknown
	}

	return txnErr.Kind()
}

// ReasonOf returns the ledger rejection reason carried by err, if any.
func ReasonOf(err error) (string, bool) {
	var txnErr *Error

	if !errors.As(err, &txnErr) || txnErr.ErrorCode != LedgerRejected {
		return "", false
	}

	return txnErr.Reason, true
}

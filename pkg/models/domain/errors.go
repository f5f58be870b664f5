package domain

import (
	"errors"
	"fmt"
)

// ErrNoReportFile reports that no spreadsheet exists for the requested
// report kind. The caller decides whether to surface it or trigger a
// fresh export first.
var ErrNoReportFile = errors.New("report file not found")

// ParseError reports a malformed or structurally unexpected spreadsheet.
// Normalization is all-or-nothing: no partial record list accompanies it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse report %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistError reports a failed write of the normalized JSON document.
// It is secondary: the in-memory records remain valid and usable.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist records to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

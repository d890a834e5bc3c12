package core

import (
	"fmt"
	"strconv"
)

// FormatError reports a malformed input record. Line and Column are 1-based;
// zero means unknown.
type FormatError struct {
	Line   int
	Column int
	Token  string
	Reason string
}

func (e *FormatError) Error() string {
	msg := "format error"
	if e.Line > 0 {
		msg += " on line " + strconv.Itoa(e.Line)
	}
	if e.Column > 0 {
		msg += fmt.Sprintf(" column %d (%q)", e.Column, e.Token)
	}
	return msg + ": " + e.Reason
}

// DivisionError is returned when an average is requested over zero rows.
type DivisionError struct {
	Op string
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("division error: %s over zero rows", e.Op)
}

package core

import (
	"fmt"
	"strconv"
	"strings"
)

type NumericKind int

const (
	Float NumericKind = iota
	Integer
)

func (kind NumericKind) String() string {
	switch kind {
	case Float:
		return "float"
	case Integer:
		return "integer"
	}
	return "NumericKind(" + strconv.Itoa(int(kind)) + ")"
}

func ParseNumericKind(s string) (NumericKind, error) {
	switch s {
	case "", "float":
		return Float, nil
	case "integer", "int":
		return Integer, nil
	}
	return Float, fmt.Errorf("unknown numeric kind %q", s)
}

// Record is one parsed input line.
type Record []float64

// ParseRecord splits line on runs of whitespace and parses every token.
// The whole line is parsed before returning, so callers can apply a Record
// without risk of a half-applied line.
func ParseRecord(line string, arity int, kind NumericKind) (Record, error) {
	tokens, err := splitRecord(line, arity)
	if err != nil {
		return nil, err
	}

	record := make(Record, arity)
	for i, token := range tokens {
		value, err := parseToken(token, kind)
		if err != nil {
			return nil, tokenError(i, token, kind)
		}
		record[i] = value
	}
	return record, nil
}

// ParseIntegers is ParseRecord for integer input, keeping every value exact.
func ParseIntegers(line string, arity int) ([]int64, error) {
	tokens, err := splitRecord(line, arity)
	if err != nil {
		return nil, err
	}

	values := make([]int64, arity)
	for i, token := range tokens {
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, tokenError(i, token, Integer)
		}
		values[i] = v
	}
	return values, nil
}

func splitRecord(line string, arity int) ([]string, error) {
	tokens := strings.Fields(line)
	if len(tokens) != arity {
		return nil, &FormatError{
			Reason: fmt.Sprintf("expected %d fields, got %d", arity, len(tokens)),
		}
	}
	return tokens, nil
}

func tokenError(i int, token string, kind NumericKind) *FormatError {
	return &FormatError{
		Column: i + 1,
		Token:  token,
		Reason: "not a valid " + kind.String(),
	}
}

func parseToken(token string, kind NumericKind) (float64, error) {
	if kind == Integer {
		v, err := strconv.ParseInt(token, 10, 64)
		return float64(v), err
	}
	return strconv.ParseFloat(token, 64)
}

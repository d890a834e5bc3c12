package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	record, err := ParseRecord("  1 2.5\t-3   4e2 ", 4, Float)
	require.NoError(t, err)
	assert.Equal(t, Record{1, 2.5, -3, 400}, record)
}

func TestParseRecord_Arity(t *testing.T) {
	_, err := ParseRecord("1 2 3", 4, Float)

	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 0, formatErr.Column)
	assert.Contains(t, err.Error(), "expected 4 fields, got 3")
}

func TestParseRecord_BadToken(t *testing.T) {
	_, err := ParseRecord("1 x 3", 3, Float)

	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Column)
	assert.Equal(t, "x", formatErr.Token)
}

func TestParseRecord_Integer(t *testing.T) {
	record, err := ParseRecord("10 5 -2", 3, Integer)
	require.NoError(t, err)
	assert.Equal(t, Record{10, 5, -2}, record)

	_, err = ParseRecord("10 0.5 2", 3, Integer)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "0.5", formatErr.Token)
	assert.Contains(t, err.Error(), "not a valid integer")
}

func TestParseNumericKind(t *testing.T) {
	kind, err := ParseNumericKind("integer")
	require.NoError(t, err)
	assert.Equal(t, Integer, kind)

	kind, err = ParseNumericKind("")
	require.NoError(t, err)
	assert.Equal(t, Float, kind)

	_, err = ParseNumericKind("decimal")
	assert.Error(t, err)
}

func TestParseIntegers(t *testing.T) {
	values, err := ParseIntegers("9007199254740993 -1 0", 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{9007199254740993, -1, 0}, values)

	_, err = ParseIntegers("1 2.0 3", 3)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Column)

	_, err = ParseIntegers("1 2", 3)
	require.True(t, errors.As(err, &formatErr))
}

package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1", "1", true},
		{"50000", "50000", true},
		{"12.50", "12.5", true},
		{"12,5", "12.5", true},
		{" 0 ", "0", true},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
		{"1.2.3", "", false},
		{"0.01", "0.01", true},
		{"123456789012345.12345678", "123456789012345.12345678", true},
		{"1234567890123456", "", false},
		{"1.123456789", "", false},
		{"1e2000000000", "", false},
		{"1e-2000000000", "", false},
		{"1E5", "", false},
		{"+5", "", false},
		{".5", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "input %q got %s", tc.in, got)
	}
}

func TestParseTransactionType(t *testing.T) {
	typ, err := ParseTransactionType("income")
	require.NoError(t, err)
	assert.Equal(t, Income, typ)

	typ, err = ParseTransactionType(" Expense ")
	require.NoError(t, err)
	assert.Equal(t, Expense, typ)

	_, err = ParseTransactionType("transfer")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", d.String())

	_, err = ParseDate("02/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-03-05"))
	assert.Equal(t, "2024-03-05", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-06 00:00:00")))
	assert.Equal(t, "2024-03-06", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-07", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateOfUsesLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	late := time.Date(2024, 1, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-01-01", DateOf(late).String())
}

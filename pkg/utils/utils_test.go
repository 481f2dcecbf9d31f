package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "date only", input: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "date time", input: "2024-03-05 14:30:00", want: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{name: "iso without zone", input: "2024-03-05T14:30:00", want: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{name: "month first", input: "03/05/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding spaces", input: " 2024-03-05 ", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	date, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, date)

	date, err = ParseOptionalDate("2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.January, date.Month())

	_, err = ParseOptionalDate("31/01/2024")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "", want: 0},
		{input: "120.50", want: 120.5},
		{input: "120,50", want: 120.5},
		{input: "1,200.75", want: 1200.75},
		{input: "1,234", want: 1234},
		{input: "12,345,678", want: 12345678},
		{input: "0,500", want: 0.5},
		{input: "1,5", want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := ParseAmount("abc")
	assert.Error(t, err)
}

func TestParseAmount_NonFinite(t *testing.T) {
	for _, input := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAmount(input)
			assert.ErrorIs(t, err, ErrNonFiniteAmount)
		})
	}

	_, err := ParseAmount("1e400")
	assert.Error(t, err)
}

func TestGenerateRunID(t *testing.T) {
	id, err := GenerateRunID()
	require.NoError(t, err)
	assert.Len(t, id, runIDLength)
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, 0.67, RoundWithTwoDecimalPlace(2.0/3.0))
}

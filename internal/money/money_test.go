package money

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivankudrin/finapi/internal/model"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10", 1000},
		{"10.0", 1000},
		{"10.00", 1000},
		{"10.5", 1050},
		{"10.32", 1032},
		{"0", 0},
		{"0.01", 1},
		{"100.2", 10020},
		{"1234567.89", 123456789},
		{"-5", -500},
		{"-0.5", -50},
	}

	for _, tt := range tests {
		got, err := ToCents(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestToCentsWholeNumbersScaleByHundred(t *testing.T) {
	for _, a := range []int64{0, 1, 7, 42, 999, 100000} {
		got, err := ToCents(strconv.FormatInt(a, 10))
		require.NoError(t, err)
		require.Equal(t, a*100, got)
	}
}

func TestToCentsRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "10,5", "1.2.3", "ten"} {
		_, err := ToCents(in)
		require.ErrorIs(t, err, model.ErrInvalidAmount, "input %q", in)
	}
}

func TestToCentsRejectsSubCentPrecision(t *testing.T) {
	for _, in := range []string{"10.123", "0.001", "5.4321"} {
		_, err := ToCents(in)
		require.ErrorIs(t, err, model.ErrInvalidAmount, "input %q", in)
	}
}

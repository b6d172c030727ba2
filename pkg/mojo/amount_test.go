// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mojo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAmountAdd tests checked addition, including the wraparound case.
func TestAmountAdd(t *testing.T) {
	t.Parallel()

	sum, err := Amount(1000).Add(Amount(234))
	require.NoError(t, err)
	require.Equal(t, Amount(1234), sum)

	_, err = Amount(math.MaxUint64).Add(1)
	require.ErrorIs(t, err, ErrOverflow)
}

// TestAmountSub tests checked subtraction, including underflow.
func TestAmountSub(t *testing.T) {
	t.Parallel()

	diff, err := Amount(1000).Sub(Amount(999))
	require.NoError(t, err)
	require.Equal(t, Amount(1), diff)

	_, err = Amount(1).Sub(2)
	require.ErrorIs(t, err, ErrOverflow)
}

// TestAmountMulDiv tests the 128-bit floor multiply-divide used by royalty
// calculations.
func TestAmountMulDiv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount Amount
		num    uint64
		den    uint64
		want   Amount
	}{
		{
			name:   "five percent of 1000",
			amount: 1000,
			num:    500,
			den:    10000,
			want:   50,
		},
		{
			name:   "rounds down to zero",
			amount: 7,
			num:    333,
			den:    10000,
			want:   0,
		},
		{
			name:   "large amount does not overflow internally",
			amount: math.MaxUint64,
			num:    1,
			den:    2,
			want:   math.MaxUint64 / 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.amount.MulDiv(tc.num, tc.den)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	// A quotient that cannot fit 64 bits must fail rather than truncate.
	_, err := Amount(math.MaxUint64).MulDiv(3, 2)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Amount(1).MulDiv(1, 0)
	require.ErrorIs(t, err, ErrDivideByZero)
}

// TestSum tests summation over a slice of amounts.
func TestSum(t *testing.T) {
	t.Parallel()

	total, err := Sum(1, 2, 3, 4)
	require.NoError(t, err)
	require.Equal(t, Amount(10), total)

	_, err = Sum(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrOverflow)
}

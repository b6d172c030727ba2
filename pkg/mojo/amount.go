// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mojo provides a typed amount for dealing with Chia currency
// units. A mojo is the smallest indivisible unit; one XCH is 10^12 mojos.
//
// All arithmetic helpers in this package are checked: any operation that
// would wrap a uint64 returns ErrOverflow instead of silently truncating.
// Amount conservation checks throughout the wallet funnel through these
// helpers so that an arithmetic fault is always surfaced, never clamped.
package mojo

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// MojosPerXCH is the number of mojos in one XCH.
	MojosPerXCH = 1e12
)

var (
	// ErrOverflow is returned when an arithmetic operation on amounts
	// overflows or underflows the 64-bit range.
	ErrOverflow = errors.New("amount overflow")

	// ErrDivideByZero is returned when a rate computation would divide
	// by zero.
	ErrDivideByZero = errors.New("amount division by zero")
)

// Amount represents a quantity of mojos. Coin amounts on chain are
// unsigned 64-bit values, so Amount is too; negative intermediate results
// are impossible by construction and subtraction is checked.
type Amount uint64

// Add returns a + b, or ErrOverflow if the sum does not fit in 64 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, fmt.Errorf("%d + %d: %w", a, b, ErrOverflow)
	}

	return Amount(sum), nil
}

// Sub returns a - b, or ErrOverflow if b exceeds a.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%d - %d: %w", a, b, ErrOverflow)
	}

	return Amount(diff), nil
}

// MulDiv returns floor(a * num / den) computed with 128-bit intermediate
// precision, so the multiplication cannot overflow internally. It returns
// ErrOverflow if the final quotient does not fit in 64 bits and
// ErrDivideByZero if den is zero.
//
// This is the primitive behind royalty math: royalty amounts are
// floor(price * tenThousandths / 10000).
func (a Amount) MulDiv(num, den uint64) (Amount, error) {
	if den == 0 {
		return 0, ErrDivideByZero
	}

	hi, lo := bits.Mul64(uint64(a), num)
	if hi >= den {
		return 0, fmt.Errorf("%d * %d / %d: %w", a, num, den,
			ErrOverflow)
	}

	quo, _ := bits.Div64(hi, lo, den)

	return Amount(quo), nil
}

// Sum returns the sum of all amounts, or ErrOverflow if the running total
// wraps.
func Sum(amounts ...Amount) (Amount, error) {
	var (
		total Amount
		err   error
	)
	for _, amount := range amounts {
		total, err = total.Add(amount)
		if err != nil {
			return 0, err
		}
	}

	return total, nil
}

// ToXCH returns the amount expressed in whole XCH as a float. This is a
// display conversion only and must never be used for consensus-relevant
// math, as float64 cannot represent all 64-bit mojo values exactly.
func (a Amount) ToXCH() float64 {
	return float64(a) / MojosPerXCH
}

// String returns the amount formatted in whole mojos.
func (a Amount) String() string {
	return fmt.Sprintf("%d mojo", uint64(a))
}

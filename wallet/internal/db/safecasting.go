// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrCastingOverflow is returned when a value cannot be safely
	// cast to the desired type.
	ErrCastingOverflow = errors.New("casting overflow")
)

// int64ToUint32 safely casts an int64 to an uint32, returning an error
// if the value is out of range.
func int64ToUint32(v int64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("could not cast %d to uint32: %w", v,
			ErrCastingOverflow)
	}

	return uint32(v), nil
}

// int64ToUint16 safely casts an int64 to an uint16, returning an error
// if the value is out of range.
func int64ToUint16(v int64) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("could not cast %d to uint16: %w", v,
			ErrCastingOverflow)
	}

	return uint16(v), nil
}

// boolToInt64 encodes a flag for a SMALLINT/INTEGER column shared
// across both backends.
func boolToInt64(v bool) int64 {
	if v {
		return 1
	}

	return 0
}

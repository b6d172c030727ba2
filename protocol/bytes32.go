// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package protocol defines the chain-level value types the wallet is
// built on: 32-byte identifiers, coins and their deterministic ids, coin
// spends, spend bundles, and BLS public keys.
package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Bytes32Size is the size of a Bytes32 in bytes.
const Bytes32Size = 32

// ErrInvalidBytes32 is returned when decoding a Bytes32 from input of the
// wrong length.
var ErrInvalidBytes32 = errors.New("invalid 32-byte value")

// Bytes32 is a fixed 32-byte value. Coin ids, puzzle hashes, asset ids
// and announcement ids are all Bytes32 values.
type Bytes32 [Bytes32Size]byte

// NewBytes32 copies a slice into a Bytes32, returning an error if the
// slice is not exactly 32 bytes.
func NewBytes32(b []byte) (Bytes32, error) {
	var out Bytes32
	if len(b) != Bytes32Size {
		return out, fmt.Errorf("%w: got %d bytes", ErrInvalidBytes32,
			len(b))
	}

	copy(out[:], b)

	return out, nil
}

// Bytes32FromHex decodes a hex string into a Bytes32.
func Bytes32FromHex(s string) (Bytes32, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Bytes32{}, fmt.Errorf("%w: %v", ErrInvalidBytes32, err)
	}

	return NewBytes32(b)
}

// String returns the value as lowercase hex.
func (b Bytes32) String() string {
	return hex.EncodeToString(b[:])
}

// IsZero reports whether the value is all zeroes.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

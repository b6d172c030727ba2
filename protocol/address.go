// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// MainnetAddressPrefix is the bech32m human-readable part for
	// mainnet receive addresses.
	MainnetAddressPrefix = "xch"

	// TestnetAddressPrefix is the bech32m human-readable part for
	// testnet receive addresses.
	TestnetAddressPrefix = "txch"
)

// ErrInvalidAddress is returned when an address fails to decode or does
// not carry a 32-byte payload.
var ErrInvalidAddress = errors.New("invalid address")

// EncodeAddress encodes a puzzle hash as a bech32m address with the given
// prefix.
func EncodeAddress(puzzleHash Bytes32, prefix string) (string, error) {
	converted, err := bech32.ConvertBits(puzzleHash[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}

	addr, err := bech32.EncodeM(prefix, converted)
	if err != nil {
		return "", fmt.Errorf("encode bech32m: %w", err)
	}

	return addr, nil
}

// DecodeAddress decodes a bech32m address into its prefix and puzzle
// hash.
func DecodeAddress(addr string) (string, Bytes32, error) {
	prefix, data, version, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return "", Bytes32{}, fmt.Errorf("%w: %v", ErrInvalidAddress,
			err)
	}

	if version != bech32.VersionM {
		return "", Bytes32{}, fmt.Errorf("%w: not bech32m",
			ErrInvalidAddress)
	}

	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", Bytes32{}, fmt.Errorf("%w: %v", ErrInvalidAddress,
			err)
	}

	puzzleHash, err := NewBytes32(converted)
	if err != nil {
		return "", Bytes32{}, fmt.Errorf("%w: payload is %d bytes",
			ErrInvalidAddress, len(converted))
	}

	return prefix, puzzleHash, nil
}

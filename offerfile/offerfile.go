// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package offerfile implements the textual offer artifact: the spend
// bundle is CBOR-encoded, zstd-compressed, and wrapped in bech32m under
// the "offer" human-readable prefix.
package offerfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Prefix is the bech32m human-readable part of an offer file.
const Prefix = "offer"

var (
	// ErrInvalidPrefix is returned when a decoded offer does not carry
	// the offer prefix.
	ErrInvalidPrefix = errors.New("invalid offer prefix")

	// ErrInvalidChecksum is returned when an offer string does not
	// verify as bech32m.
	ErrInvalidChecksum = errors.New("invalid offer checksum")
)

// cborEnc is the deterministic CBOR encoding mode. Offers are hashed
// and deduplicated by their text, so the encoding must be canonical.
var cborEnc = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	return mode
}

// Encode renders a spend bundle as an offer string.
func Encode(bundle protocol.SpendBundle) (string, error) {
	payload, err := cborEnc.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("encode bundle: %w", err)
	}

	writer, err := zstd.NewWriter(nil)
	if err != nil {
		return "", err
	}

	compressed := writer.EncodeAll(payload, nil)
	if err := writer.Close(); err != nil {
		return "", err
	}

	converted, err := bech32.ConvertBits(compressed, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}

	encoded, err := bech32.EncodeM(Prefix, converted)
	if err != nil {
		return "", fmt.Errorf("encode offer: %w", err)
	}

	return encoded, nil
}

// Decode parses an offer string back into a spend bundle.
func Decode(offer string) (protocol.SpendBundle, error) {
	// Offer strings routinely exceed the classic bech32 length limits,
	// so decode without one and verify the bech32m checksum by
	// re-encoding.
	hrp, data, err := bech32.DecodeNoLimit(offer)
	if err != nil {
		return protocol.SpendBundle{}, fmt.Errorf(
			"decode offer: %w", err)
	}

	if hrp != Prefix {
		return protocol.SpendBundle{}, fmt.Errorf("%w: %q",
			ErrInvalidPrefix, hrp)
	}

	reencoded, err := bech32.EncodeM(hrp, data)
	if err != nil {
		return protocol.SpendBundle{}, err
	}
	if reencoded != strings.ToLower(offer) {
		return protocol.SpendBundle{}, ErrInvalidChecksum
	}

	compressed, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return protocol.SpendBundle{}, fmt.Errorf(
			"convert bits: %w", err)
	}

	reader, err := zstd.NewReader(nil)
	if err != nil {
		return protocol.SpendBundle{}, err
	}
	defer reader.Close()

	payload, err := reader.DecodeAll(compressed, nil)
	if err != nil {
		return protocol.SpendBundle{}, fmt.Errorf(
			"decompress offer: %w", err)
	}

	var bundle protocol.SpendBundle
	if err := cbor.Unmarshal(payload, &bundle); err != nil {
		return protocol.SpendBundle{}, fmt.Errorf(
			"decode bundle: %w", err)
	}

	return bundle, nil
}

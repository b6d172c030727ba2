// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import (
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
)

// DerivationParams are the fields of a new derivation row.
type DerivationParams struct {
	// P2PuzzleHash is the derived puzzle hash.
	P2PuzzleHash protocol.Bytes32

	// Index is the derivation index within the path kind.
	Index uint32

	// Hardened marks which derivation path the index belongs to.
	Hardened bool

	// SyntheticKey is the synthetic public key for the derivation.
	SyntheticKey protocol.PublicKey
}

// NftRecord is the stored form of an NFT: its current coin, its layer
// parameters, and its singleton lineage proof. The metadata program is
// kept serialized; callers re-allocate it when spending.
type NftRecord struct {
	// Coin is the NFT's current coin.
	Coin protocol.Coin

	// LauncherID is the NFT's permanent identity.
	LauncherID protocol.Bytes32

	// Metadata is the serialized metadata program.
	Metadata protocol.Program

	// MetadataUpdaterHash is the state layer's updater hash.
	MetadataUpdaterHash protocol.Bytes32

	// CurrentOwner is the owning DID, or zero for none.
	CurrentOwner protocol.Bytes32

	// RoyaltyPuzzleHash is the royalty destination.
	RoyaltyPuzzleHash protocol.Bytes32

	// RoyaltyTenThousandths is the royalty rate in 1/10000 units.
	RoyaltyTenThousandths uint16

	// P2PuzzleHash is the inner puzzle hash controlling the NFT.
	P2PuzzleHash protocol.Bytes32

	// LineageProof proves singleton descent.
	LineageProof protocol.LineageProof
}

// amountToBytes encodes an amount as a fixed 8-byte big-endian blob.
// Amounts are stored as blobs rather than integer columns because SQL
// integers are signed 64-bit, and big-endian blobs preserve numeric
// ordering under byte comparison.
func amountToBytes(a mojo.Amount) []byte {
	var out [8]byte
	v := uint64(a)
	for i := 7; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}

	return out[:]
}

// amountFromBytes decodes a stored 8-byte amount blob.
func amountFromBytes(b []byte) (mojo.Amount, error) {
	if len(b) != 8 {
		return 0, errInvalidAmountBlob
	}

	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}

	return mojo.Amount(v), nil
}

// bytes32FromRow converts a scanned blob column into a Bytes32.
func bytes32FromRow(b []byte) (protocol.Bytes32, error) {
	out, err := protocol.NewBytes32(b)
	if err != nil {
		return protocol.Bytes32{}, errInvalidHashBlob
	}

	return out, nil
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

// Program is a serialized CLVM program.
type Program []byte

// CoinSpend is a single spend instruction: the coin being spent, the
// full reveal of its puzzle, and the solution the puzzle is run with.
type CoinSpend struct {
	// Coin is the coin being spent.
	Coin Coin `cbor:"1,keyasint"`

	// PuzzleReveal is the serialized puzzle whose tree hash must equal
	// the coin's puzzle hash.
	PuzzleReveal Program `cbor:"2,keyasint"`

	// Solution is the serialized solution program.
	Solution Program `cbor:"3,keyasint"`
}

// AggregateSignatureSize is the size of a BLS G2 aggregate signature.
const AggregateSignatureSize = 96

// SpendBundle is a set of coin spends that settle atomically, plus the
// aggregate signature over them. An unsigned bundle carries a zero
// signature.
type SpendBundle struct {
	// CoinSpends are the spends in this bundle, in emission order.
	CoinSpends []CoinSpend `cbor:"1,keyasint"`

	// AggregatedSignature is the aggregate BLS signature, or all
	// zeroes for an unsigned bundle.
	AggregatedSignature [AggregateSignatureSize]byte `cbor:"2,keyasint"`
}

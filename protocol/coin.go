// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	"crypto/sha256"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
)

// Coin is an unspent value record: the immutable triple of the parent
// coin's id, the puzzle hash committing to the spend conditions, and the
// amount. Coins are passed by value everywhere; the wallet never mutates
// a coin after it has been observed.
type Coin struct {
	// ParentCoinInfo is the id of the coin this coin was created by.
	ParentCoinInfo Bytes32 `cbor:"1,keyasint"`

	// PuzzleHash is the tree hash of the puzzle that must be revealed
	// to spend this coin.
	PuzzleHash Bytes32 `cbor:"2,keyasint"`

	// Amount is the coin's value in mojos.
	Amount mojo.Amount `cbor:"3,keyasint"`
}

// NewCoin constructs a coin from its triple.
func NewCoin(parent, puzzleHash Bytes32, amount mojo.Amount) Coin {
	return Coin{
		ParentCoinInfo: parent,
		PuzzleHash:     puzzleHash,
		Amount:         amount,
	}
}

// ID returns the coin's deterministic id:
// sha256(parent_coin_info || puzzle_hash || int(amount)), with the amount
// in the canonical CLVM integer encoding. The id is the universal
// identity for spend tracking and assertion targets.
func (c Coin) ID() Bytes32 {
	h := sha256.New()
	h.Write(c.ParentCoinInfo[:])
	h.Write(c.PuzzleHash[:])
	h.Write(clvm.Int(uint64(c.Amount)))

	var id Bytes32
	h.Sum(id[:0])

	return id
}

// LineageProof proves a coin's descent from a correctly-formed parent of
// the same layer. CAT and singleton spends reveal it so the layer can
// verify the parent carried the same wrapper.
type LineageProof struct {
	// ParentParentCoinInfo is the grandparent coin id.
	ParentParentCoinInfo Bytes32

	// ParentInnerPuzzleHash is the parent's puzzle hash beneath the
	// layer wrapper.
	ParentInnerPuzzleHash Bytes32

	// ParentAmount is the parent coin's amount.
	ParentAmount mojo.Amount
}

// CatCoin is a coin wrapped by the CAT layer for a particular asset,
// along with the information needed to spend it.
type CatCoin struct {
	// Coin is the on-chain coin record.
	Coin Coin

	// AssetID identifies the CAT this coin belongs to.
	AssetID Bytes32

	// P2PuzzleHash is the inner puzzle hash beneath the CAT wrapper,
	// i.e. the owner's standard puzzle hash.
	P2PuzzleHash Bytes32

	// LineageProof proves the parent was a CAT of the same asset.
	LineageProof LineageProof
}

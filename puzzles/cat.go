// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"errors"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
)

// ErrEmptyCatSpend is returned when a CAT group spend is attempted with
// no coins.
var ErrEmptyCatSpend = errors.New("empty CAT spend")

// CatPuzzle wraps an inner puzzle in the CAT layer for an asset. The
// returned puzzle always carries a valid hash; the program is present
// only when the inner puzzle can be revealed.
func CatPuzzle(assetID protocol.Bytes32, inner Puzzle) Puzzle {
	hash := clvm.CurriedTreeHash(
		[32]byte(CatModHash),
		clvm.AtomHash(CatModHash[:]),
		clvm.AtomHash(assetID[:]),
		[32]byte(inner.Hash),
	)

	puzzle := Puzzle{Hash: protocol.Bytes32(hash)}
	if inner.Node != nil {
		puzzle.Node = clvm.Curry(
			catMod,
			clvm.Atom(CatModHash[:]),
			clvm.Atom(assetID[:]),
			inner.Node,
		)
	}

	return puzzle
}

// CatSpend is one coin's share of a CAT group spend.
type CatSpend struct {
	// Cat is the coin being spent.
	Cat protocol.CatCoin

	// Inner is the coin's inner puzzle.
	Inner Puzzle

	// InnerSolution is the solution for the inner puzzle.
	InnerSolution clvm.Node

	// Output is the total value the inner puzzle creates from this
	// coin. The CAT layer verifies the group's ring of subtotals, so
	// each coin must declare what it emits.
	Output mojo.Amount
}

// SpendCatCoins emits one spend per coin in a CAT group. The group forms
// a ring: each coin's solution names its neighbors and carries the
// running subtotal of value deltas, which is how the layer enforces that
// the group as a whole conserves the asset.
func SpendCatCoins(ctx *SpendContext, spends []CatSpend) error {
	if len(spends) == 0 {
		return ErrEmptyCatSpend
	}

	// The running subtotal seen by coin i is the sum of deltas of all
	// earlier coins, where a coin's delta is its input minus its
	// declared output.
	subtotals := make([]int64, len(spends))

	var running int64
	for i, spend := range spends {
		subtotals[i] = running
		running += int64(spend.Cat.Coin.Amount) - int64(spend.Output)
	}

	for i, spend := range spends {
		prev := spends[(i+len(spends)-1)%len(spends)]
		next := spends[(i+1)%len(spends)]

		prevID := prevCoinID(prev)
		solution := clvm.List(
			spend.InnerSolution,
			lineageProofNode(spend.Cat.LineageProof),
			clvm.Atom(prevID[:]),
			coinNode(spend.Cat.Coin),
			nextCoinProof(next),
			clvm.SignedInt(subtotals[i]),
			clvm.Nil,
		)

		puzzle := CatPuzzle(spend.Cat.AssetID, spend.Inner)
		if err := ctx.Spend(spend.Cat.Coin, puzzle, solution); err != nil {
			return err
		}
	}

	return nil
}

func prevCoinID(spend CatSpend) protocol.Bytes32 {
	return spend.Cat.Coin.ID()
}

// coinNode returns the (parent puzzle_hash amount) form of a coin.
func coinNode(coin protocol.Coin) clvm.Node {
	return clvm.List(
		clvm.Atom(coin.ParentCoinInfo[:]),
		clvm.Atom(coin.PuzzleHash[:]),
		clvm.Int(uint64(coin.Amount)),
	)
}

// nextCoinProof names the next coin in the ring by its parent, inner
// puzzle hash and amount.
func nextCoinProof(spend CatSpend) clvm.Node {
	return clvm.List(
		clvm.Atom(spend.Cat.Coin.ParentCoinInfo[:]),
		clvm.Atom(spend.Cat.P2PuzzleHash[:]),
		clvm.Int(uint64(spend.Cat.Coin.Amount)),
	)
}

func lineageProofNode(proof protocol.LineageProof) clvm.Node {
	return clvm.List(
		clvm.Atom(proof.ParentParentCoinInfo[:]),
		clvm.Atom(proof.ParentInnerPuzzleHash[:]),
		clvm.Int(uint64(proof.ParentAmount)),
	)
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"errors"
	"fmt"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/protocol"
)

// ErrMissingReveal is returned when a spend is emitted for a puzzle that
// is known only by hash.
var ErrMissingReveal = errors.New("puzzle reveal not available")

// SpendContext accumulates the coin spends emitted during one offer
// build. It is owned exclusively by the in-flight build: no locking, no
// sharing, and a failed build simply drops it.
type SpendContext struct {
	spends []protocol.CoinSpend
}

// NewSpendContext creates an empty spend context.
func NewSpendContext() *SpendContext {
	return &SpendContext{}
}

// Insert appends a fully-formed coin spend.
func (s *SpendContext) Insert(spend protocol.CoinSpend) {
	s.spends = append(s.spends, spend)
}

// Spend serializes the puzzle reveal and solution for a coin and inserts
// the resulting coin spend. It fails if the puzzle cannot be revealed or
// either program fails to serialize.
func (s *SpendContext) Spend(coin protocol.Coin, puzzle Puzzle,
	solution clvm.Node) error {

	if puzzle.Node == nil {
		return fmt.Errorf("%w: puzzle %v", ErrMissingReveal,
			puzzle.Hash)
	}

	reveal, err := clvm.Serialize(puzzle.Node)
	if err != nil {
		return fmt.Errorf("serialize puzzle reveal: %w", err)
	}

	solutionBytes, err := clvm.Serialize(solution)
	if err != nil {
		return fmt.Errorf("serialize solution: %w", err)
	}

	s.Insert(protocol.CoinSpend{
		Coin:         coin,
		PuzzleReveal: reveal,
		Solution:     solutionBytes,
	})

	return nil
}

// Len returns the number of accumulated spends.
func (s *SpendContext) Len() int {
	return len(s.spends)
}

// Take returns the accumulated spends and resets the context.
func (s *SpendContext) Take() []protocol.CoinSpend {
	spends := s.spends
	s.spends = nil

	return spends
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements the offer construction pipeline: coin
// selection with reservation, royalty computation, the atomicity
// assertion ring, and assembly of the unsigned offer artifact.
package wallet

import (
	"context"
	"errors"

	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/wallet/internal/db"
)

// Config holds the collaborators and knobs of a Wallet.
type Config struct {
	// Store is the wallet database.
	Store db.Store

	// Strategy arranges eligible coins before greedy selection.
	// Defaults to largest first.
	Strategy CoinSelectionStrategy
}

// Wallet builds offers over the coin set tracked by its store.
type Wallet struct {
	cfg Config
}

// NewWallet validates the config and returns a wallet.
func NewWallet(cfg *Config) (*Wallet, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Store == nil {
		return nil, ErrNilStore
	}

	if cfg.Strategy == nil {
		cfg.Strategy = CoinSelectionLargest
	}

	return &Wallet{cfg: *cfg}, nil
}

// receivePuzzleHash resolves the puzzle hash incoming payments and
// change are sent to.
func (w *Wallet) receivePuzzleHash(ctx context.Context, hardened,
	reuse bool) (protocol.Bytes32, error) {

	ph, err := w.cfg.Store.ReceivePuzzleHash(ctx, hardened, reuse)
	if errors.Is(err, db.ErrNotFound) {
		return protocol.Bytes32{}, ErrMissingKey
	}

	return ph, err
}

// syntheticKey resolves the synthetic key controlling a p2 puzzle hash.
func (w *Wallet) syntheticKey(ctx context.Context,
	p2PuzzleHash protocol.Bytes32) (protocol.PublicKey, error) {

	key, err := w.cfg.Store.SyntheticKey(ctx, p2PuzzleHash)
	if errors.Is(err, db.ErrNotFound) {
		return protocol.PublicKey{}, ErrMissingKey
	}

	return key, err
}

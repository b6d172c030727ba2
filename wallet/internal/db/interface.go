// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package db implements the wallet's persistent store: key derivations,
// coin records with reservation state, CAT coins, and NFT records. Two
// SQL backends are provided, SQLite and PostgreSQL, sharing one
// hand-written query layer.
package db

import (
	"context"

	"github.com/chiasuite/chiawallet/protocol"
)

// Store is the top-level interface combining the granular
// sub-interfaces. It is the single entry point for all wallet database
// operations.
type Store interface {
	DerivationStore
	CoinStore
	NftStore

	// Close releases the underlying database handle.
	Close() error
}

// DerivationStore manages the key-derivation records: one row per
// derived p2 puzzle hash, carrying the derivation index, the hardened
// flag, and the synthetic public key.
type DerivationStore interface {
	// InsertDerivation records a new derivation.
	InsertDerivation(ctx context.Context, params DerivationParams) error

	// DerivationIndex returns the next unassigned derivation index for
	// the given path kind.
	DerivationIndex(ctx context.Context, hardened bool) (uint32, error)

	// ReceivePuzzleHash returns a receive puzzle hash. With reuse set,
	// the most recently derived hash is returned; otherwise the first
	// unused derivation is claimed and marked used.
	ReceivePuzzleHash(ctx context.Context, hardened,
		reuse bool) (protocol.Bytes32, error)

	// SyntheticKey returns the synthetic public key for a derived p2
	// puzzle hash, or ErrNotFound.
	SyntheticKey(ctx context.Context,
		p2PuzzleHash protocol.Bytes32) (protocol.PublicKey, error)
}

// CoinStore manages the unspent coin set and its reservation state.
//
// Reservation contract: ReserveCoins marks every named coin reserved in
// a single transaction and fails with ErrCoinReserved if any of them is
// already reserved or spent. Two concurrent offer builds can therefore
// never hold the same coin.
type CoinStore interface {
	// InsertCoin records a new unspent native coin.
	InsertCoin(ctx context.Context, coin protocol.Coin) error

	// InsertCatCoin records a new unspent CAT coin.
	InsertCatCoin(ctx context.Context, cat protocol.CatCoin) error

	// UnspentCoins lists unspent, unreserved native coins.
	UnspentCoins(ctx context.Context) ([]protocol.Coin, error)

	// UnspentCatCoins lists unspent, unreserved coins of one CAT.
	UnspentCatCoins(ctx context.Context,
		assetID protocol.Bytes32) ([]protocol.CatCoin, error)

	// ReserveCoins atomically reserves all named coins, or none.
	ReserveCoins(ctx context.Context, coinIDs []protocol.Bytes32) error

	// ReleaseCoins clears the reservation on the named coins.
	ReleaseCoins(ctx context.Context, coinIDs []protocol.Bytes32) error
}

// NftStore manages NFT records.
type NftStore interface {
	// UpsertNft inserts or replaces an NFT record keyed by launcher id.
	UpsertNft(ctx context.Context, record NftRecord) error

	// Nft returns the record for a launcher id, or ErrNotFound.
	Nft(ctx context.Context,
		launcherID protocol.Bytes32) (NftRecord, error)
}

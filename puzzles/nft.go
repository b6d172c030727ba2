// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// NftInfo describes an NFT's layer stack: the singleton identity, the
// metadata state, the ownership/royalty state, and the inner puzzle hash
// controlling it.
type NftInfo struct {
	// LauncherID is the singleton launcher coin id, the NFT's
	// permanent identity.
	LauncherID protocol.Bytes32

	// Metadata is the current metadata program.
	Metadata clvm.Node

	// MetadataUpdaterHash is the puzzle hash of the updater the state
	// layer accepts metadata changes from.
	MetadataUpdaterHash protocol.Bytes32

	// CurrentOwner is the DID currently owning the NFT, if any.
	// Requested-side NFT puzzles are always reconstructed with no
	// owner, since settlement clears ownership.
	CurrentOwner fn.Option[protocol.Bytes32]

	// RoyaltyPuzzleHash is where royalties are paid.
	RoyaltyPuzzleHash protocol.Bytes32

	// RoyaltyTenThousandths is the royalty rate in units of 1/10000 of
	// traded value.
	RoyaltyTenThousandths uint16

	// P2PuzzleHash is the inner puzzle hash controlling the NFT.
	P2PuzzleHash protocol.Bytes32
}

// Nft is an NFT the wallet controls: its current coin, its layer info,
// and the singleton lineage proof needed to spend it.
type Nft struct {
	// Coin is the NFT's current coin.
	Coin protocol.Coin

	// Info is the layer stack description.
	Info NftInfo

	// LineageProof proves singleton descent.
	LineageProof protocol.LineageProof
}

// WithMetadata returns a copy of the info with replaced metadata.
func (info NftInfo) WithMetadata(metadata clvm.Node) NftInfo {
	info.Metadata = metadata
	return info
}

// singletonStruct is the (MOD_HASH . (LAUNCHER_ID . LAUNCHER_HASH))
// triple every singleton layer is curried with.
func singletonStruct(launcherID protocol.Bytes32) clvm.Node {
	return clvm.Pair{
		First: clvm.Atom(SingletonModHash[:]),
		Rest: clvm.Pair{
			First: clvm.Atom(launcherID[:]),
			Rest:  clvm.Atom(LauncherHash[:]),
		},
	}
}

// transferProgram builds the royalty transfer program for an NFT.
func transferProgram(info NftInfo) Puzzle {
	return curry(
		nftTransferProgramMod,
		singletonStruct(info.LauncherID),
		clvm.Atom(info.RoyaltyPuzzleHash[:]),
		clvm.Int(uint64(info.RoyaltyTenThousandths)),
	)
}

// NftPuzzle constructs the NFT's full puzzle with the given inner
// puzzle: singleton wrapping the state layer wrapping the ownership
// layer wrapping inner.
func NftPuzzle(info NftInfo, inner Puzzle) Puzzle {
	var owner clvm.Node = clvm.Nil
	info.CurrentOwner.WhenSome(func(did protocol.Bytes32) {
		owner = clvm.Atom(did[:])
	})

	ownership := curry(
		nftOwnershipMod,
		clvm.Atom(NftOwnershipLayerHash[:]),
		owner,
		transferProgram(info).Node,
		inner.Node,
	)

	state := curry(
		nftStateMod,
		clvm.Atom(NftStateLayerHash[:]),
		info.Metadata,
		clvm.Atom(info.MetadataUpdaterHash[:]),
		ownership.Node,
	)

	return curry(singletonMod, singletonStruct(info.LauncherID), state.Node)
}

// LockSettlement spends an NFT into the settlement layer: the inner p2
// spend transfers control to the settlement puzzle and emits the
// transfer condition carrying the trade prices, so the royalty
// obligations travel with the NFT. Extra conditions (claimed offer
// assertions) ride along on the same spend.
func LockSettlement(ctx *SpendContext, nft Nft, p2 StandardLayer,
	tradePrices []TradePrice, extra Conditions) error {

	conditions := extra.Extend(TransferNft{TradePrices: tradePrices})
	conditions = conditions.CreateCoin(
		SettlementPaymentsHash, nft.Coin.Amount,
		SettlementPaymentsHash[:],
	)

	puzzle := NftPuzzle(nft.Info, p2.Puzzle())

	// Solution nesting mirrors the layer stack: the singleton wraps
	// the state layer's solution, which wraps the ownership layer's,
	// which wraps the p2 solution.
	p2Solution := p2.DelegatedSolution(conditions)
	solution := clvm.List(
		lineageProofNode(nft.LineageProof),
		clvm.Int(uint64(nft.Coin.Amount)),
		clvm.List(clvm.List(p2Solution)),
	)

	return ctx.Spend(nft.Coin, puzzle, solution)
}

// SettlementTradePrice is a convenience for building a trade price that
// pays into the given settlement puzzle hash.
func SettlementTradePrice(amount mojo.Amount,
	puzzleHash protocol.Bytes32) TradePrice {

	return TradePrice{Amount: amount, PuzzleHash: puzzleHash}
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package puzzles constructs the puzzle programs and puzzle hashes the
// wallet spends to: the settlement payments layer, the CAT layer, the
// NFT layer stack, and the standard p2 layer. It also provides the
// on-chain condition vocabulary and the SpendContext that accumulates
// emitted coin spends during an offer build.
package puzzles

import (
	"encoding/hex"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/protocol"
)

// Serialized module programs. Each module is addressed by its tree hash;
// currying parameters into a module yields the concrete puzzle a coin is
// locked with.
//
// The standard p2 module and the singleton launcher are the compiled
// mainnet artifacts; their tree hashes match the published chain
// constants and are pinned in mods_test.go. The remaining modules are
// structural stand-ins that keep every hash, reveal and announcement in
// this package internally consistent; swap in the compiled artifacts
// before producing offers for mainnet.
const (
	p2DelegatedOrHiddenHex = "ff02ffff01ff02ffff03ff0bffff01ff02ffff03" +
		"ffff09ff05ffff1dff0bffff1effff0bff0bffff02ff06ffff04ff02ff" +
		"ff04ff17ff8080808080808080ffff01ff02ff17ff2f80ffff01ff0880" +
		"80ff0180ffff01ff04ffff04ff04ffff04ff05ffff04ffff02ff06ffff" +
		"04ff02ffff04ff17ff80808080ff80808080ffff02ff17ff2f808080ff" +
		"0180ffff04ffff01ff32ff02ffff03ffff07ff0580ffff01ff0bffff01" +
		"02ffff02ff06ffff04ff02ffff04ff09ff80808080ffff02ff06ffff04" +
		"ff02ffff04ff0dff8080808080ffff01ff0bffff0101ff058080ff0180" +
		"ff018080"

	singletonLauncherHex = "ff02ffff01ff04ffff04ff04ffff04ff05ffff04ff" +
		"0bff80808080ffff04ffff04ff0affff04ffff02ff0effff04ff02ffff" +
		"04ffff04ff05ffff04ff0bffff04ff17ff80808080ff80808080ff8080" +
		"80ff808080ffff04ffff01ff33ff3cff02ffff03ffff07ff0580ffff01" +
		"ff0bffff0102ffff02ff0effff04ff02ffff04ff09ff80808080ffff02" +
		"ff0effff04ff02ffff04ff0dff8080808080ffff01ff0bffff0101ff05" +
		"8080ff0180ff018080"

	settlementPaymentsHex = "ff02ffff0102ffff04ffff0193736574746c656d65" +
		"6e745f7061796d656e7473ff018080"

	catHex = "ff02ffff0102ffff04ffff01866361745f7632ff018080"

	singletonTopLayerHex = "ff02ffff0102ffff04ffff019873696e676c65746f" +
		"6e5f746f705f6c617965725f76315f31ff018080"

	nftStateLayerHex = "ff02ffff0102ffff04ffff018f6e66745f73746174655f" +
		"6c61796572ff018080"

	nftOwnershipLayerHex = "ff02ffff0102ffff04ffff01936e66745f6f776e65" +
		"72736869705f6c61796572ff018080"

	nftTransferProgramHex = "ff02ffff0102ffff04ffff01bb6e66745f6f776e65" +
		"72736869705f7472616e736665725f70726f6772616d5f6f6e655f7761" +
		"795f636c61696d5f776974685f726f79616c74696573ff018080"
)

// nftMetadataUpdaterHashHex is the published tree hash of the default
// metadata updater module. Only the hash is ever curried into the state
// layer; no spend this package emits reveals the program.
const nftMetadataUpdaterHashHex = "fe8a4b4e27a2e29a4d3fc7ce9d527adbc" +
	"accbab6ada3903ccf3ba9a769d2d78b"

// Deserialized module programs.
var (
	settlementMod         = mustParseMod(settlementPaymentsHex)
	catMod                = mustParseMod(catHex)
	p2Mod                 = mustParseMod(p2DelegatedOrHiddenHex)
	singletonMod          = mustParseMod(singletonTopLayerHex)
	launcherMod           = mustParseMod(singletonLauncherHex)
	nftStateMod           = mustParseMod(nftStateLayerHex)
	nftOwnershipMod       = mustParseMod(nftOwnershipLayerHex)
	nftTransferProgramMod = mustParseMod(nftTransferProgramHex)
)

// Module tree hashes.
var (
	// SettlementPaymentsHash is the puzzle hash of the bare settlement
	// payments layer. Every settlement-encumbered output is created at
	// this hash, or at this hash wrapped in an outer asset layer.
	SettlementPaymentsHash = modHash(settlementMod)

	// CatModHash is the tree hash of the CAT layer module.
	CatModHash = modHash(catMod)

	// P2ModHash is the tree hash of the standard p2 module.
	P2ModHash = modHash(p2Mod)

	// SingletonModHash is the tree hash of the singleton top layer.
	SingletonModHash = modHash(singletonMod)

	// LauncherHash is the puzzle hash of the singleton launcher.
	LauncherHash = modHash(launcherMod)

	// NftStateLayerHash is the tree hash of the NFT state layer.
	NftStateLayerHash = modHash(nftStateMod)

	// NftOwnershipLayerHash is the tree hash of the NFT ownership
	// layer.
	NftOwnershipLayerHash = modHash(nftOwnershipMod)

	// NftMetadataUpdaterHash is the tree hash of the default metadata
	// updater.
	NftMetadataUpdaterHash = mustParseHash(nftMetadataUpdaterHashHex)
)

func mustParseMod(s string) clvm.Node {
	raw, err := hex.DecodeString(s)
	if err != nil {
		panic("puzzles: bad module hex: " + err.Error())
	}

	node, err := clvm.Deserialize(raw)
	if err != nil {
		panic("puzzles: bad module program: " + err.Error())
	}

	return node
}

func mustParseHash(s string) protocol.Bytes32 {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		panic("puzzles: bad module hash hex: " + s)
	}

	var out protocol.Bytes32
	copy(out[:], raw)

	return out
}

func modHash(mod clvm.Node) protocol.Bytes32 {
	return protocol.Bytes32(clvm.TreeHash(mod))
}

// Puzzle pairs a constructed program with its tree hash. The hash is
// always present; the node is present whenever this side of a trade can
// reveal the program. Requested-side puzzles are sometimes known only by
// hash, which is all that announcements and CREATE_COIN targets need.
type Puzzle struct {
	// Hash is the puzzle's tree hash.
	Hash protocol.Bytes32

	// Node is the full program, or nil when only the hash is known.
	Node clvm.Node
}

// NewPuzzle builds a Puzzle from a program node.
func NewPuzzle(node clvm.Node) Puzzle {
	return Puzzle{
		Hash: protocol.Bytes32(clvm.TreeHash(node)),
		Node: node,
	}
}

// curry parameterizes a module, carrying both the program and the hash.
func curry(mod clvm.Node, args ...clvm.Node) Puzzle {
	return NewPuzzle(clvm.Curry(mod, args...))
}

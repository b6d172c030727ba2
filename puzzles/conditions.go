// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
)

// Condition opcodes.
const (
	opCreateCoin            = 51
	opReserveFee            = 52
	opAssertPuzzleAnnounce  = 63
	opAssertConcurrentSpend = 64
)

// transferOpcode is the ownership layer's magic condition opcode, the
// CLVM encoding of -10. The ownership layer intercepts it instead of
// passing it through to the chain.
var transferOpcode = clvm.Atom{0xf6}

// Condition is a single on-chain condition emitted by a spend. The
// interface is sealed: the engine deals in a closed set of condition
// kinds, and each knows its own CLVM form.
type Condition interface {
	// Node returns the condition's CLVM form.
	Node() clvm.Node

	// isCondition is a marker method that is part of the sealed
	// interface pattern. It is unexported, so only types within this
	// package can be conditions.
	isCondition()
}

// CreateCoin creates a new coin as an output of the spend.
type CreateCoin struct {
	// PuzzleHash is the new coin's puzzle hash.
	PuzzleHash protocol.Bytes32

	// Amount is the new coin's value.
	Amount mojo.Amount

	// Memos are optional hint atoms attached to the output, used by
	// wallets to rediscover coins.
	Memos [][]byte
}

// ReserveFee reserves part of the spent value as a transaction fee.
type ReserveFee struct {
	// Amount is the fee in mojos.
	Amount mojo.Amount
}

// AssertPuzzleAnnouncement requires that some coin in the same
// transaction creates a puzzle announcement with the given id.
type AssertPuzzleAnnouncement struct {
	// AnnouncementID is sha256(puzzle_hash || message).
	AnnouncementID protocol.Bytes32
}

// AssertConcurrentSpend requires that the named coin is spent in the
// same transaction. Rings of these make multi-coin offers atomic.
type AssertConcurrentSpend struct {
	// CoinID is the id of the coin that must be spent concurrently.
	CoinID protocol.Bytes32
}

// TransferNft is the ownership layer's transfer condition. Emitting it
// with no new owner and a set of trade prices locks the NFT for
// settlement and carries the royalty obligations forward.
type TransferNft struct {
	// TradePrices are the per-asset amounts a claim of this NFT
	// converts to, which the transfer program charges royalties on.
	TradePrices []TradePrice
}

// TradePrice is an (amount, settlement puzzle hash) pair: what one
// requested item converts to in a particular offered asset.
type TradePrice struct {
	// Amount is the per-item amount in the asset's units.
	Amount mojo.Amount

	// PuzzleHash is the settlement puzzle hash royalties for this
	// asset are paid to, wrapped in the asset's outer layer if any.
	PuzzleHash protocol.Bytes32
}

// Node returns the trade price's CLVM form (amount puzzle_hash).
func (tp TradePrice) Node() clvm.Node {
	return clvm.List(
		clvm.Int(uint64(tp.Amount)),
		clvm.Atom(tp.PuzzleHash[:]),
	)
}

// Node returns (51 puzzle_hash amount memos...), omitting the memo list
// when empty.
func (c CreateCoin) Node() clvm.Node {
	items := []clvm.Node{
		clvm.Int(opCreateCoin),
		clvm.Atom(c.PuzzleHash[:]),
		clvm.Int(uint64(c.Amount)),
	}

	if len(c.Memos) > 0 {
		memos := make([]clvm.Node, len(c.Memos))
		for i, memo := range c.Memos {
			memos[i] = clvm.Atom(memo)
		}

		items = append(items, clvm.List(memos...))
	}

	return clvm.List(items...)
}

// Node returns (52 amount).
func (c ReserveFee) Node() clvm.Node {
	return clvm.List(clvm.Int(opReserveFee), clvm.Int(uint64(c.Amount)))
}

// Node returns (63 announcement_id).
func (c AssertPuzzleAnnouncement) Node() clvm.Node {
	return clvm.List(
		clvm.Int(opAssertPuzzleAnnounce),
		clvm.Atom(c.AnnouncementID[:]),
	)
}

// Node returns (64 coin_id).
func (c AssertConcurrentSpend) Node() clvm.Node {
	return clvm.List(
		clvm.Int(opAssertConcurrentSpend),
		clvm.Atom(c.CoinID[:]),
	)
}

// Node returns (-10 () trade_prices ()).
func (c TransferNft) Node() clvm.Node {
	prices := make([]clvm.Node, len(c.TradePrices))
	for i, price := range c.TradePrices {
		prices[i] = price.Node()
	}

	return clvm.List(
		transferOpcode, clvm.Nil, clvm.List(prices...), clvm.Nil,
	)
}

func (CreateCoin) isCondition()               {}
func (ReserveFee) isCondition()               {}
func (AssertPuzzleAnnouncement) isCondition() {}
func (AssertConcurrentSpend) isCondition()    {}
func (TransferNft) isCondition()              {}

// Conditions is an ordered list of conditions under construction. The
// builder methods return a new slice value; an offer build threads one
// accumulator per coin through its pipeline and never shares it.
type Conditions []Condition

// CreateCoin appends a coin creation.
func (c Conditions) CreateCoin(puzzleHash protocol.Bytes32,
	amount mojo.Amount, memos ...[]byte) Conditions {

	return append(c, CreateCoin{
		PuzzleHash: puzzleHash,
		Amount:     amount,
		Memos:      memos,
	})
}

// ReserveFee appends a fee reservation.
func (c Conditions) ReserveFee(amount mojo.Amount) Conditions {
	return append(c, ReserveFee{Amount: amount})
}

// AssertConcurrentSpend appends a concurrent spend assertion.
func (c Conditions) AssertConcurrentSpend(coinID protocol.Bytes32) Conditions {
	return append(c, AssertConcurrentSpend{CoinID: coinID})
}

// AssertPuzzleAnnouncement appends a puzzle announcement assertion.
func (c Conditions) AssertPuzzleAnnouncement(id protocol.Bytes32) Conditions {
	return append(c, AssertPuzzleAnnouncement{AnnouncementID: id})
}

// Extend appends all given conditions.
func (c Conditions) Extend(conditions ...Condition) Conditions {
	return append(c, conditions...)
}

// Node returns the condition list's CLVM form.
func (c Conditions) Node() clvm.Node {
	items := make([]clvm.Node, len(c))
	for i, condition := range c {
		items[i] = condition.Node()
	}

	return clvm.List(items...)
}

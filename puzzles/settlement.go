// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"crypto/sha256"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
)

// Payment is a single requested payment: a destination puzzle hash, an
// amount, and optional memos.
type Payment struct {
	// PuzzleHash is the destination.
	PuzzleHash protocol.Bytes32

	// Amount is the payment value.
	Amount mojo.Amount

	// Memos are optional hint atoms. Wallets memo the destination
	// puzzle hash so the recipient can rediscover wrapped coins.
	Memos [][]byte
}

// NewPayment builds a payment without memos.
func NewPayment(puzzleHash protocol.Bytes32, amount mojo.Amount) Payment {
	return Payment{PuzzleHash: puzzleHash, Amount: amount}
}

// NewPaymentWithMemo builds a payment memoed with its own destination.
func NewPaymentWithMemo(puzzleHash protocol.Bytes32,
	amount mojo.Amount) Payment {

	return Payment{
		PuzzleHash: puzzleHash,
		Amount:     amount,
		Memos:      [][]byte{puzzleHash[:]},
	}
}

// Node returns (puzzle_hash amount memos...), omitting the memo list
// when empty.
func (p Payment) Node() clvm.Node {
	items := []clvm.Node{
		clvm.Atom(p.PuzzleHash[:]),
		clvm.Int(uint64(p.Amount)),
	}

	if len(p.Memos) > 0 {
		memos := make([]clvm.Node, len(p.Memos))
		for i, memo := range p.Memos {
			memos[i] = clvm.Atom(memo)
		}

		items = append(items, clvm.List(memos...))
	}

	return clvm.List(items...)
}

// NotarizedPayment binds payments to a nonce. The settlement layer only
// releases value against payments notarized with the nonce the offer was
// built with, which ties a counterparty's claim to the exact coin set
// being offered.
type NotarizedPayment struct {
	// Nonce is the binding value. For offer payments it is the offer
	// nonce; for royalty payouts it is the NFT's launcher id, which
	// keeps royalty payments traceable per NFT.
	Nonce protocol.Bytes32

	// Payments are the payments released under this nonce.
	Payments []Payment
}

// Node returns (nonce payment...).
func (np NotarizedPayment) Node() clvm.Node {
	payments := make([]clvm.Node, len(np.Payments))
	for i, payment := range np.Payments {
		payments[i] = payment.Node()
	}

	return clvm.Pair{
		First: clvm.Atom(np.Nonce[:]),
		Rest:  clvm.List(payments...),
	}
}

// SettlementPuzzle returns the bare settlement payments puzzle.
func SettlementPuzzle() Puzzle {
	return Puzzle{Hash: SettlementPaymentsHash, Node: settlementMod}
}

// SettlementAnnouncementID computes the puzzle announcement id a
// settlement coin at the given puzzle hash creates when it honors a
// notarized payment: sha256(puzzle_hash || tree_hash(notarized_payment)).
// Asserting this id is how one side of a trade forces the other side's
// payment to exist in the same transaction.
func SettlementAnnouncementID(puzzleHash protocol.Bytes32,
	np NotarizedPayment) protocol.Bytes32 {

	message := clvm.TreeHash(np.Node())

	h := sha256.New()
	h.Write(puzzleHash[:])
	h.Write(message[:])

	var id protocol.Bytes32
	h.Sum(id[:0])

	return id
}

// SpendSettlementCoin emits the spend of a bare settlement coin,
// releasing its value to the given notarized payments.
func SpendSettlementCoin(ctx *SpendContext, coin protocol.Coin,
	payments []NotarizedPayment) error {

	items := make([]clvm.Node, len(payments))
	for i, np := range payments {
		items[i] = np.Node()
	}

	return ctx.Spend(coin, SettlementPuzzle(), clvm.List(items...))
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
)

// OfferBuilder accumulates the requested side of an offer. Every
// requested payment is notarized under the offer nonce and mirrored as
// a puzzle announcement assertion, so the payments can only be honored
// against this exact offer and the maker's coins can only be spent
// alongside them.
//
// The builder has value semantics: methods return an updated copy.
type OfferBuilder struct {
	nonce      protocol.Bytes32
	assertions puzzles.Conditions
	requested  []RequestedSpend
}

// RequestedSpend is one requested puzzle together with the payments
// notarized against it. In the finished offer it becomes a spend of a
// phantom coin revealing the puzzle, which is how offer files
// communicate requested payments to the taker.
type RequestedSpend struct {
	// Puzzle is the requested asset's settlement-wrapped puzzle.
	Puzzle puzzles.Puzzle

	// Payments are the notarized payments the taker must honor.
	Payments []puzzles.NotarizedPayment
}

// NewOfferBuilder starts a builder for the given offer nonce.
func NewOfferBuilder(nonce protocol.Bytes32) OfferBuilder {
	return OfferBuilder{nonce: nonce}
}

// Nonce returns the offer nonce the builder notarizes against.
func (b OfferBuilder) Nonce() protocol.Bytes32 {
	return b.nonce
}

// RequestPayment notarizes payments against a requested puzzle and
// records the matching announcement assertion. Repeated requests for
// the same puzzle are merged into one requested spend.
func (b OfferBuilder) RequestPayment(puzzle puzzles.Puzzle,
	payments []puzzles.Payment) OfferBuilder {

	np := puzzles.NotarizedPayment{
		Nonce:    b.nonce,
		Payments: payments,
	}

	b.assertions = b.assertions.AssertPuzzleAnnouncement(
		puzzles.SettlementAnnouncementID(puzzle.Hash, np),
	)

	requested := make([]RequestedSpend, len(b.requested))
	copy(requested, b.requested)
	b.requested = requested

	for i := range b.requested {
		if b.requested[i].Puzzle.Hash != puzzle.Hash {
			continue
		}

		b.requested[i].Payments = append(
			b.requested[i].Payments, np,
		)

		return b
	}

	b.requested = append(b.requested, RequestedSpend{
		Puzzle:   puzzle,
		Payments: []puzzles.NotarizedPayment{np},
	})

	return b
}

// Finish returns the accumulated assertion bag and the requested
// spends.
func (b OfferBuilder) Finish() (puzzles.Conditions, []RequestedSpend) {
	return b.assertions, b.requested
}

// CoinSpend renders the requested spend as a phantom coin spend: a
// coin with a zero parent and zero amount revealing the requested
// puzzle, solved with the notarized payments.
func (r RequestedSpend) CoinSpend() (protocol.CoinSpend, error) {
	reveal, err := clvm.Serialize(r.Puzzle.Node)
	if err != nil {
		return protocol.CoinSpend{}, err
	}

	items := make([]clvm.Node, len(r.Payments))
	for i, np := range r.Payments {
		items[i] = np.Node()
	}

	solution, err := clvm.Serialize(clvm.List(items...))
	if err != nil {
		return protocol.CoinSpend{}, err
	}

	return protocol.CoinSpend{
		Coin: protocol.NewCoin(
			protocol.Bytes32{}, r.Puzzle.Hash, 0,
		),
		PuzzleReveal: reveal,
		Solution:     solution,
	}, nil
}

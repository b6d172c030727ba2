// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
)

// assertionRing distributes the offer's announcement assertions and
// concurrent-spend links across the primary coins, one claim per coin.
//
// The first primary coin carries the whole assertion bag plus a link to
// the last primary coin; every other primary coin links to its
// predecessor. Spending any primary coin therefore forces the entire
// ring, and with it every requested payment, into the same transaction.
type assertionRing struct {
	order  []protocol.Bytes32
	shares map[protocol.Bytes32]puzzles.Conditions
}

// newAssertionRing seeds the ring over the primary coins in spend
// order, attaching the assertion bag to the first coin. A single-coin
// ring carries the bag alone, since a coin cannot usefully assert its
// own spend.
func newAssertionRing(coinIDs []protocol.Bytes32,
	bag puzzles.Conditions) *assertionRing {

	ring := &assertionRing{
		order:  coinIDs,
		shares: make(map[protocol.Bytes32]puzzles.Conditions),
	}

	for i, coinID := range coinIDs {
		var share puzzles.Conditions
		switch {
		case i == 0:
			share = bag
			if len(coinIDs) > 1 {
				share = share.AssertConcurrentSpend(
					coinIDs[len(coinIDs)-1],
				)
			}

		default:
			share = share.AssertConcurrentSpend(coinIDs[i-1])
		}

		ring.shares[coinID] = share
	}

	return ring
}

// claim hands out a primary coin's share of the ring exactly once.
func (r *assertionRing) claim(
	coinID protocol.Bytes32) (puzzles.Conditions, error) {

	share, ok := r.shares[coinID]
	if !ok {
		if _, seen := findCoin(r.order, coinID); seen {
			return nil, ErrAssertionClaimed
		}

		return nil, ErrUnknownPrimaryCoin
	}

	delete(r.shares, coinID)

	return share, nil
}

// unclaimed reports how many shares were never handed out. A finished
// offer build must leave this at zero.
func (r *assertionRing) unclaimed() int {
	return len(r.shares)
}

func findCoin(coinIDs []protocol.Bytes32,
	coinID protocol.Bytes32) (int, bool) {

	for i, id := range coinIDs {
		if id == coinID {
			return i, true
		}
	}

	return 0, false
}

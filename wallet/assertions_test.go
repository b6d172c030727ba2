// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
	"github.com/stretchr/testify/require"
)

// TestAssertionRing tests the ring's link structure: the first coin
// carries the bag and points at the last coin, every other coin points
// at its predecessor.
func TestAssertionRing(t *testing.T) {
	t.Parallel()

	coins := []protocol.Bytes32{fill32(1), fill32(2), fill32(3)}

	var bag puzzles.Conditions
	bag = bag.AssertPuzzleAnnouncement(fill32(0xee))

	ring := newAssertionRing(coins, bag)

	first, err := ring.claim(coins[0])
	require.NoError(t, err)
	require.Equal(t, puzzles.Conditions{
		puzzles.AssertPuzzleAnnouncement{AnnouncementID: fill32(0xee)},
		puzzles.AssertConcurrentSpend{CoinID: coins[2]},
	}, first)

	for i := 1; i < len(coins); i++ {
		share, err := ring.claim(coins[i])
		require.NoError(t, err)
		require.Equal(t, puzzles.Conditions{
			puzzles.AssertConcurrentSpend{CoinID: coins[i-1]},
		}, share)
	}

	require.Zero(t, ring.unclaimed())

	_, err = ring.claim(coins[1])
	require.ErrorIs(t, err, ErrAssertionClaimed)

	_, err = ring.claim(fill32(0x99))
	require.ErrorIs(t, err, ErrUnknownPrimaryCoin)
}

// TestAssertionRingSingleCoin tests that a lone primary coin carries
// the bag without a self-referential link.
func TestAssertionRingSingleCoin(t *testing.T) {
	t.Parallel()

	var bag puzzles.Conditions
	bag = bag.AssertPuzzleAnnouncement(fill32(0xee))

	ring := newAssertionRing([]protocol.Bytes32{fill32(1)}, bag)

	share, err := ring.claim(fill32(1))
	require.NoError(t, err)
	require.Equal(t, bag, share)
	require.Zero(t, ring.unclaimed())
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"crypto/sha256"
	"testing"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

func b32(t *testing.T, fill byte) protocol.Bytes32 {
	t.Helper()

	var out protocol.Bytes32
	for i := range out {
		out[i] = fill
	}

	return out
}

// TestCatPuzzleHashConsistency tests that the hash-only CAT puzzle hash
// agrees with hashing the revealed program.
func TestCatPuzzleHashConsistency(t *testing.T) {
	t.Parallel()

	assetID := b32(t, 0xaa)
	inner := SettlementPuzzle()

	puzzle := CatPuzzle(assetID, inner)
	require.NotNil(t, puzzle.Node)
	require.Equal(t, puzzle.Hash,
		protocol.Bytes32(clvm.TreeHash(puzzle.Node)))

	// A hash-only inner puzzle must still produce the same hash.
	hashOnly := CatPuzzle(assetID, Puzzle{Hash: inner.Hash})
	require.Nil(t, hashOnly.Node)
	require.Equal(t, puzzle.Hash, hashOnly.Hash)

	// Different assets give different puzzle hashes.
	require.NotEqual(t, puzzle.Hash, CatPuzzle(b32(t, 0xbb), inner).Hash)
}

// TestSettlementAnnouncementID tests the announcement id construction.
func TestSettlementAnnouncementID(t *testing.T) {
	t.Parallel()

	np := NotarizedPayment{
		Nonce: b32(t, 0x01),
		Payments: []Payment{
			NewPaymentWithMemo(b32(t, 0x02), 1000),
		},
	}

	message := clvm.TreeHash(np.Node())

	h := sha256.New()
	h.Write(SettlementPaymentsHash[:])
	h.Write(message[:])

	var want protocol.Bytes32
	h.Sum(want[:0])

	require.Equal(t, want,
		SettlementAnnouncementID(SettlementPaymentsHash, np))

	// The id must depend on the nonce.
	np.Nonce = b32(t, 0x03)
	require.NotEqual(t, want,
		SettlementAnnouncementID(SettlementPaymentsHash, np))
}

// TestNftPuzzleOwner tests that the NFT puzzle hash changes with the
// owner and that the full stack reveals cleanly.
func TestNftPuzzleOwner(t *testing.T) {
	t.Parallel()

	info := NftInfo{
		LauncherID:            b32(t, 0x11),
		Metadata:              clvm.List(clvm.Atom("u"), clvm.Nil),
		MetadataUpdaterHash:   NftMetadataUpdaterHash,
		CurrentOwner:          fn.None[protocol.Bytes32](),
		RoyaltyPuzzleHash:     b32(t, 0x22),
		RoyaltyTenThousandths: 500,
		P2PuzzleHash:          b32(t, 0x33),
	}

	noOwner := NftPuzzle(info, SettlementPuzzle())
	require.NotNil(t, noOwner.Node)
	require.Equal(t, noOwner.Hash,
		protocol.Bytes32(clvm.TreeHash(noOwner.Node)))

	info.CurrentOwner = fn.Some(b32(t, 0x44))
	withOwner := NftPuzzle(info, SettlementPuzzle())
	require.NotEqual(t, noOwner.Hash, withOwner.Hash)
}

// TestSpendCatCoinsRing tests the neighbor links and subtotals of a CAT
// group spend.
func TestSpendCatCoinsRing(t *testing.T) {
	t.Parallel()

	ctx := NewSpendContext()
	inner := SettlementPuzzle()

	cats := make([]CatSpend, 3)
	for i := range cats {
		coin := protocol.NewCoin(
			b32(t, byte(i+1)), b32(t, 0x50), 100,
		)
		cats[i] = CatSpend{
			Cat: protocol.CatCoin{
				Coin:         coin,
				AssetID:      b32(t, 0xaa),
				P2PuzzleHash: b32(t, 0x50),
			},
			Inner:         inner,
			InnerSolution: clvm.Nil,
		}
	}

	// The first coin emits the whole group's value.
	cats[0].Output = 300

	require.NoError(t, SpendCatCoins(ctx, cats))

	spends := ctx.Take()
	require.Len(t, spends, 3)

	for i, spend := range spends {
		require.Equal(t, cats[i].Cat.Coin, spend.Coin)

		// Every reveal must hash to the group's shared puzzle hash.
		node, err := clvm.Deserialize(spend.PuzzleReveal)
		require.NoError(t, err)
		require.Equal(t,
			CatPuzzle(cats[i].Cat.AssetID, inner).Hash,
			protocol.Bytes32(clvm.TreeHash(node)))
	}

	require.ErrorIs(t, SpendCatCoins(ctx, nil), ErrEmptyCatSpend)
}

// TestSpendContextMissingReveal tests that hash-only puzzles cannot be
// spent.
func TestSpendContextMissingReveal(t *testing.T) {
	t.Parallel()

	ctx := NewSpendContext()
	coin := protocol.NewCoin(b32(t, 0x01), b32(t, 0x02), 1)

	err := ctx.Spend(coin, Puzzle{Hash: b32(t, 0x02)}, clvm.Nil)
	require.ErrorIs(t, err, ErrMissingReveal)
	require.Zero(t, ctx.Len())
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/stretchr/testify/require"
)

func fill32(b byte) protocol.Bytes32 {
	var out protocol.Bytes32
	for i := range out {
		out[i] = b
	}

	return out
}

// TestCalculateAssetPrices tests the even split of offered amounts
// across NFTs, with the remainder folded into the first share.
func TestCalculateAssetPrices(t *testing.T) {
	t.Parallel()

	catID := fill32(0xaa)

	prices := CalculateAssetPrices(3, 1000,
		map[protocol.Bytes32]mojo.Amount{catID: 10})

	require.Len(t, prices, 3)

	// 1000 = 334 + 333 + 333, 10 = 4 + 3 + 3.
	require.Equal(t, AssetPrices{
		{Amount: 334},
		{AssetID: catID, Amount: 4},
	}, prices[0])

	for _, p := range prices[1:] {
		require.Equal(t, AssetPrices{
			{Amount: 333},
			{AssetID: catID, Amount: 3},
		}, p)
	}

	require.Nil(t, CalculateAssetPrices(0, 1000, nil))

	// Zero amounts contribute no prices at all.
	prices = CalculateAssetPrices(2, 0,
		map[protocol.Bytes32]mojo.Amount{catID: 0})
	require.Len(t, prices, 2)
	require.Empty(t, prices[0])
	require.Empty(t, prices[1])
}

// TestCalculateAssetRoyalties tests the floored royalty computation and
// the dropping of zero amounts.
func TestCalculateAssetRoyalties(t *testing.T) {
	t.Parallel()

	nfts := []NftRoyaltyInfo{
		{
			LauncherID:     fill32(1),
			PuzzleHash:     fill32(2),
			TenThousandths: 500,
		},
		{
			LauncherID:     fill32(3),
			PuzzleHash:     fill32(4),
			TenThousandths: 7,
		},
	}
	prices := []AssetPrices{
		{{Amount: 1000}},
		{{Amount: 333}},
	}

	payments, err := CalculateAssetRoyalties(nfts, prices)
	require.NoError(t, err)

	// 1000 * 500 / 10000 = 50; 333 * 7 / 10000 rounds down to zero
	// and is dropped.
	require.Equal(t, []RoyaltyPayment{{
		NftID:      fill32(1),
		PuzzleHash: fill32(2),
		Amount:     50,
	}}, payments)

	// A zero royalty rate produces nothing.
	payments, err = CalculateAssetRoyalties(
		[]NftRoyaltyInfo{{LauncherID: fill32(5)}},
		[]AssetPrices{{{Amount: 1000}}},
	)
	require.NoError(t, err)
	require.Empty(t, payments)

	_, err = CalculateAssetRoyalties(nfts, prices[:1])
	require.ErrorIs(t, err, ErrPriceMismatch)
}

// TestRoyaltyAssertions tests that each royalty yields exactly one
// announcement assertion and that the assertion depends on the asset.
func TestRoyaltyAssertions(t *testing.T) {
	t.Parallel()

	xchPayment := RoyaltyPayment{
		NftID:      fill32(1),
		PuzzleHash: fill32(2),
		Amount:     50,
	}

	catPayment := xchPayment
	catPayment.AssetID = fill32(0xaa)

	xchConds := RoyaltyAssertions([]RoyaltyPayment{xchPayment})
	catConds := RoyaltyAssertions([]RoyaltyPayment{catPayment})

	require.Len(t, xchConds, 1)
	require.Len(t, catConds, 1)

	// Same payment, different asset, different settlement puzzle,
	// different announcement.
	require.NotEqual(t, xchConds[0], catConds[0])
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/chiasuite/chiawallet/protocol"
	"github.com/stretchr/testify/require"
)

// testKeyHex is the compressed BLS12-381 G1 generator, a valid public
// key for store roundtrips.
const testKeyHex = "97f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905" +
	"a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "wallet.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func testKey(t *testing.T) protocol.PublicKey {
	t.Helper()

	raw, err := hex.DecodeString(testKeyHex)
	require.NoError(t, err)

	key, err := protocol.NewPublicKey(raw)
	require.NoError(t, err)

	return key
}

func hash32(fill byte) protocol.Bytes32 {
	var out protocol.Bytes32
	for i := range out {
		out[i] = fill
	}

	return out
}

// TestDerivations tests index assignment, unused-first puzzle hash
// handout, and synthetic key lookup.
func TestDerivations(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	key := testKey(t)

	next, err := store.DerivationIndex(ctx, false)
	require.NoError(t, err)
	require.Zero(t, next)

	for i := uint32(0); i < 2; i++ {
		err := store.InsertDerivation(ctx, DerivationParams{
			P2PuzzleHash: hash32(byte(i + 1)),
			Index:        i,
			Hardened:     false,
			SyntheticKey: key,
		})
		require.NoError(t, err)
	}

	next, err = store.DerivationIndex(ctx, false)
	require.NoError(t, err)
	require.Equal(t, uint32(2), next)

	// The hardened path counts separately.
	next, err = store.DerivationIndex(ctx, true)
	require.NoError(t, err)
	require.Zero(t, next)

	// Without reuse, derivations are handed out lowest index first,
	// each one only once.
	ph, err := store.ReceivePuzzleHash(ctx, false, false)
	require.NoError(t, err)
	require.Equal(t, hash32(1), ph)

	ph, err = store.ReceivePuzzleHash(ctx, false, false)
	require.NoError(t, err)
	require.Equal(t, hash32(2), ph)

	_, err = store.ReceivePuzzleHash(ctx, false, false)
	require.ErrorIs(t, err, ErrNotFound)

	// With reuse, the latest derivation is returned even when used.
	ph, err = store.ReceivePuzzleHash(ctx, false, true)
	require.NoError(t, err)
	require.Equal(t, hash32(2), ph)

	got, err := store.SyntheticKey(ctx, hash32(1))
	require.NoError(t, err)
	require.Equal(t, key.Bytes(), got.Bytes())

	_, err = store.SyntheticKey(ctx, hash32(0x99))
	require.ErrorIs(t, err, ErrNotFound)
}

// TestCoinReservation tests listing order and the all-or-nothing
// reservation contract.
func TestCoinReservation(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	coins := []protocol.Coin{
		protocol.NewCoin(hash32(1), hash32(0x10), 100),
		protocol.NewCoin(hash32(2), hash32(0x10), 300),
		protocol.NewCoin(hash32(3), hash32(0x10), 200),
	}
	for _, coin := range coins {
		require.NoError(t, store.InsertCoin(ctx, coin))
	}

	unspent, err := store.UnspentCoins(ctx)
	require.NoError(t, err)
	require.Len(t, unspent, 3)

	// Largest first.
	require.Equal(t, coins[1], unspent[0])
	require.Equal(t, coins[2], unspent[1])
	require.Equal(t, coins[0], unspent[2])

	reserved := []protocol.Bytes32{coins[1].ID(), coins[2].ID()}
	require.NoError(t, store.ReserveCoins(ctx, reserved))

	unspent, err = store.UnspentCoins(ctx)
	require.NoError(t, err)
	require.Len(t, unspent, 1)
	require.Equal(t, coins[0], unspent[0])

	// A reservation naming an already-reserved coin must fail without
	// touching the free coin.
	err = store.ReserveCoins(ctx, []protocol.Bytes32{
		coins[0].ID(), coins[1].ID(),
	})
	require.ErrorIs(t, err, ErrCoinReserved)

	unspent, err = store.UnspentCoins(ctx)
	require.NoError(t, err)
	require.Len(t, unspent, 1)

	require.NoError(t, store.ReleaseCoins(ctx, reserved))

	unspent, err = store.UnspentCoins(ctx)
	require.NoError(t, err)
	require.Len(t, unspent, 3)

	// Empty reservations are no-ops.
	require.NoError(t, store.ReserveCoins(ctx, nil))
	require.NoError(t, store.ReleaseCoins(ctx, nil))
}

// TestCatCoins tests CAT coin roundtrips including the lineage proof,
// and that assets do not bleed into each other or the native coin set.
func TestCatCoins(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	cat := protocol.CatCoin{
		Coin:         protocol.NewCoin(hash32(1), hash32(0x20), 5000),
		AssetID:      hash32(0xaa),
		P2PuzzleHash: hash32(0x30),
		LineageProof: protocol.LineageProof{
			ParentParentCoinInfo:  hash32(4),
			ParentInnerPuzzleHash: hash32(5),
			ParentAmount:          7000,
		},
	}
	require.NoError(t, store.InsertCatCoin(ctx, cat))

	cats, err := store.UnspentCatCoins(ctx, hash32(0xaa))
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, cat, cats[0])

	cats, err = store.UnspentCatCoins(ctx, hash32(0xbb))
	require.NoError(t, err)
	require.Empty(t, cats)

	unspent, err := store.UnspentCoins(ctx)
	require.NoError(t, err)
	require.Empty(t, unspent)

	// CAT coins share the reservation machinery.
	require.NoError(t, store.ReserveCoins(ctx,
		[]protocol.Bytes32{cat.Coin.ID()}))

	cats, err = store.UnspentCatCoins(ctx, hash32(0xaa))
	require.NoError(t, err)
	require.Empty(t, cats)
}

// TestNftRecord tests NFT upsert and lookup, including the optional
// owner column.
func TestNftRecord(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	record := NftRecord{
		Coin:                  protocol.NewCoin(hash32(1), hash32(2), 1),
		LauncherID:            hash32(0x11),
		Metadata:              protocol.Program{0xff, 0x80, 0x80},
		MetadataUpdaterHash:   hash32(0x12),
		RoyaltyPuzzleHash:     hash32(0x13),
		RoyaltyTenThousandths: 500,
		P2PuzzleHash:          hash32(0x14),
		LineageProof: protocol.LineageProof{
			ParentParentCoinInfo:  hash32(0x15),
			ParentInnerPuzzleHash: hash32(0x16),
			ParentAmount:          1,
		},
	}
	require.NoError(t, store.UpsertNft(ctx, record))

	got, err := store.Nft(ctx, record.LauncherID)
	require.NoError(t, err)
	require.Equal(t, record, got)
	require.True(t, got.CurrentOwner.IsZero())

	// Re-upserting with a new coin and owner replaces the row.
	record.Coin = protocol.NewCoin(hash32(3), hash32(2), 1)
	record.CurrentOwner = hash32(0x17)
	require.NoError(t, store.UpsertNft(ctx, record))

	got, err = store.Nft(ctx, record.LauncherID)
	require.NoError(t, err)
	require.Equal(t, record, got)

	_, err = store.Nft(ctx, hash32(0x99))
	require.ErrorIs(t, err, ErrNotFound)
}

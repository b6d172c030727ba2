// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
	"github.com/chiasuite/chiawallet/wallet/internal/db"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testKeyHex is the compressed BLS12-381 G1 generator, a valid public
// key for spend construction.
const testKeyHex = "97f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905" +
	"a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"

// nilProgram is the canonical serialization of the empty list, used as
// placeholder NFT metadata.
var nilProgram = protocol.Program{0x80}

func testKey(t *testing.T) protocol.PublicKey {
	t.Helper()

	raw, err := hex.DecodeString(testKeyHex)
	require.NoError(t, err)

	key, err := protocol.NewPublicKey(raw)
	require.NoError(t, err)

	return key
}

func newTestWallet(t *testing.T, store *mockStore) *Wallet {
	t.Helper()

	w, err := NewWallet(&Config{Store: store})
	require.NoError(t, err)

	return w
}

// TestMakeOfferXchForNft builds an offer of 1000 mojos plus a 10 mojo
// fee against a requested NFT with a 10% royalty, and verifies the
// complete spend set down to the serialized solutions.
func TestMakeOfferXchForNft(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	w := newTestWallet(t, store)

	key := testKey(t)
	receiveHash := fill32(0x77)
	coin := protocol.NewCoin(fill32(0x01), fill32(0x02), 1200)

	store.On("ReceivePuzzleHash", mock.Anything, false, false).
		Return(receiveHash, nil)
	store.On("UnspentCoins", mock.Anything).
		Return([]protocol.Coin{coin}, nil)
	store.On("SyntheticKey", mock.Anything, coin.PuzzleHash).
		Return(key, nil)
	store.On("ReserveCoins", mock.Anything,
		[]protocol.Bytes32{coin.ID()}).Return(nil)

	nft := RequestedNft{
		LauncherID:            fill32(0x20),
		Metadata:              nilProgram,
		MetadataUpdaterHash:   puzzles.NftMetadataUpdaterHash,
		RoyaltyPuzzleHash:     fill32(0x21),
		RoyaltyTenThousandths: 1000,
	}

	offered := Offered{Xch: 1000, Fee: 10}
	requested := Requested{Nfts: []RequestedNft{nft}}

	offer, err := w.MakeOffer(
		context.Background(), offered, requested, false, false,
	)
	require.NoError(t, err)
	store.AssertNotCalled(t, "ReleaseCoins", mock.Anything, mock.Anything)

	// The nonce covers exactly the selected coin.
	require.Equal(t, offerNonce([]protocol.Bytes32{coin.ID()}),
		offer.Nonce)

	// One standard spend, one royalty settlement spend, one phantom
	// spend for the requested NFT.
	require.Len(t, offer.CoinSpends, 3)

	// The standard coin's conditions: the requested payment assertion,
	// then the offered settlement coin, the 10% royalty pool, the fee,
	// and 1200-1000-10-100 = 90 mojos change.
	nftPuzzle, err := requestedNftPuzzle(nft)
	require.NoError(t, err)

	expectBuilder := NewOfferBuilder(offer.Nonce).RequestPayment(
		nftPuzzle,
		[]puzzles.Payment{
			puzzles.NewPaymentWithMemo(receiveHash, 1),
		},
	)
	bag, _ := expectBuilder.Finish()

	conditions := bag.
		CreateCoin(puzzles.SettlementPaymentsHash, 1000).
		CreateCoin(puzzles.SettlementPaymentsHash, 100).
		ReserveFee(10).
		CreateCoin(receiveHash, 90)

	wantSolution, err := clvm.Serialize(
		puzzles.NewStandardLayer(key).DelegatedSolution(conditions),
	)
	require.NoError(t, err)

	require.Equal(t, coin, offer.CoinSpends[0].Coin)
	require.Equal(t, wantSolution, []byte(offer.CoinSpends[0].Solution))

	// The royalty pool coin is a child of the spent coin and pays the
	// royalty notarized under the NFT's launcher id.
	pool := offer.CoinSpends[1]
	require.Equal(t, protocol.NewCoin(
		coin.ID(), puzzles.SettlementPaymentsHash, 100,
	), pool.Coin)

	np := puzzles.NotarizedPayment{
		Nonce: nft.LauncherID,
		Payments: []puzzles.Payment{
			puzzles.NewPaymentWithMemo(nft.RoyaltyPuzzleHash, 100),
		},
	}
	wantPoolSolution, err := clvm.Serialize(clvm.List(np.Node()))
	require.NoError(t, err)
	require.Equal(t, wantPoolSolution, []byte(pool.Solution))

	// The phantom spend reveals the requested NFT puzzle.
	phantom := offer.CoinSpends[2]
	require.Equal(t, protocol.Bytes32{}, phantom.Coin.ParentCoinInfo)
	require.Equal(t, nftPuzzle.Hash, phantom.Coin.PuzzleHash)
	require.Zero(t, phantom.Coin.Amount)
}

// TestMakeOfferCatLeg builds an offer of a CAT amount split across two
// coins against requested XCH and verifies the leg structure.
func TestMakeOfferCatLeg(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	w := newTestWallet(t, store)

	key := testKey(t)
	receiveHash := fill32(0x77)
	assetID := fill32(0xaa)

	inner := puzzles.NewStandardLayer(key).Puzzle()
	catHash := puzzles.CatPuzzle(assetID, inner).Hash

	cats := []protocol.CatCoin{
		{
			Coin:         protocol.NewCoin(fill32(0x01), catHash, 60),
			AssetID:      assetID,
			P2PuzzleHash: inner.Hash,
			LineageProof: protocol.LineageProof{
				ParentParentCoinInfo:  fill32(0x03),
				ParentInnerPuzzleHash: inner.Hash,
				ParentAmount:          120,
			},
		},
		{
			Coin:         protocol.NewCoin(fill32(0x02), catHash, 50),
			AssetID:      assetID,
			P2PuzzleHash: inner.Hash,
			LineageProof: protocol.LineageProof{
				ParentParentCoinInfo:  fill32(0x04),
				ParentInnerPuzzleHash: inner.Hash,
				ParentAmount:          60,
			},
		},
	}

	store.On("ReceivePuzzleHash", mock.Anything, false, true).
		Return(receiveHash, nil)
	store.On("UnspentCatCoins", mock.Anything, assetID).
		Return(cats, nil)
	store.On("SyntheticKey", mock.Anything, inner.Hash).
		Return(key, nil)
	store.On("ReserveCoins", mock.Anything, mock.Anything).Return(nil)

	offered := Offered{
		Cats: map[protocol.Bytes32]mojo.Amount{assetID: 100},
	}
	requested := Requested{Xch: 1000}

	offer, err := w.MakeOffer(
		context.Background(), offered, requested, false, true,
	)
	require.NoError(t, err)

	// Two CAT spends plus the phantom settlement spend for the
	// requested XCH.
	require.Len(t, offer.CoinSpends, 3)
	require.Equal(t, cats[0].Coin, offer.CoinSpends[0].Coin)
	require.Equal(t, cats[1].Coin, offer.CoinSpends[1].Coin)

	phantom := offer.CoinSpends[2]
	require.Equal(t, puzzles.SettlementPaymentsHash,
		phantom.Coin.PuzzleHash)

	// Both CAT reveals hash to the shared outer puzzle hash.
	for _, spend := range offer.CoinSpends[:2] {
		node, err := clvm.Deserialize(spend.PuzzleReveal)
		require.NoError(t, err)
		require.Equal(t, catHash,
			protocol.Bytes32(clvm.TreeHash(node)))
	}
}

// TestMakeOfferInsufficientFunds tests that selection failure surfaces
// before any coin is reserved.
func TestMakeOfferInsufficientFunds(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	w := newTestWallet(t, store)

	store.On("ReceivePuzzleHash", mock.Anything, false, false).
		Return(fill32(0x77), nil)
	store.On("UnspentCoins", mock.Anything).Return([]protocol.Coin{
		protocol.NewCoin(fill32(0x01), fill32(0x02), 300),
	}, nil)

	_, err := w.MakeOffer(
		context.Background(), Offered{Xch: 500},
		Requested{Xch: 1}, false, false,
	)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	store.AssertNotCalled(t, "ReserveCoins", mock.Anything, mock.Anything)
}

// TestMakeOfferReleasesOnFailure tests that a failure after reservation
// releases the reserved coins.
func TestMakeOfferReleasesOnFailure(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	w := newTestWallet(t, store)

	coin := protocol.NewCoin(fill32(0x01), fill32(0x02), 300)

	store.On("ReceivePuzzleHash", mock.Anything, false, false).
		Return(fill32(0x77), nil)
	store.On("UnspentCoins", mock.Anything).
		Return([]protocol.Coin{coin}, nil)
	store.On("ReserveCoins", mock.Anything,
		[]protocol.Bytes32{coin.ID()}).Return(nil)

	// No synthetic key known for the coin: the build fails after the
	// reservation was taken.
	store.On("SyntheticKey", mock.Anything, coin.PuzzleHash).
		Return(protocol.PublicKey{}, db.ErrNotFound)
	store.On("ReleaseCoins", mock.Anything,
		[]protocol.Bytes32{coin.ID()}).Return(nil)

	_, err := w.MakeOffer(
		context.Background(), Offered{Xch: 100},
		Requested{Xch: 1}, false, false,
	)
	require.ErrorIs(t, err, ErrMissingKey)

	store.AssertCalled(t, "ReleaseCoins", mock.Anything,
		[]protocol.Bytes32{coin.ID()})
}

// TestMakeOfferEmpty tests the rejection of an offer with nothing on
// either side.
func TestMakeOfferEmpty(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t, &mockStore{})

	_, err := w.MakeOffer(
		context.Background(), Offered{}, Requested{}, false, false,
	)
	require.ErrorIs(t, err, ErrEmptyOffer)
}

// TestOfferNonceDeterminism tests that the nonce does not depend on the
// order coins were selected in.
func TestOfferNonceDeterminism(t *testing.T) {
	t.Parallel()

	ids := []protocol.Bytes32{fill32(3), fill32(1), fill32(2)}
	permuted := []protocol.Bytes32{fill32(1), fill32(2), fill32(3)}

	require.Equal(t, offerNonce(ids), offerNonce(permuted))
	require.NotEqual(t, offerNonce(ids), offerNonce(ids[:2]))
}

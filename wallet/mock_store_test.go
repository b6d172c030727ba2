// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"

	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/wallet/internal/db"
	"github.com/stretchr/testify/mock"
)

// mockStore is a mock implementation of db.Store.
type mockStore struct {
	mock.Mock
}

var _ db.Store = (*mockStore)(nil)

func (m *mockStore) InsertDerivation(ctx context.Context,
	params db.DerivationParams) error {

	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockStore) DerivationIndex(ctx context.Context,
	hardened bool) (uint32, error) {

	args := m.Called(ctx, hardened)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *mockStore) ReceivePuzzleHash(ctx context.Context, hardened,
	reuse bool) (protocol.Bytes32, error) {

	args := m.Called(ctx, hardened, reuse)
	return args.Get(0).(protocol.Bytes32), args.Error(1)
}

func (m *mockStore) SyntheticKey(ctx context.Context,
	p2PuzzleHash protocol.Bytes32) (protocol.PublicKey, error) {

	args := m.Called(ctx, p2PuzzleHash)
	return args.Get(0).(protocol.PublicKey), args.Error(1)
}

func (m *mockStore) InsertCoin(ctx context.Context,
	coin protocol.Coin) error {

	args := m.Called(ctx, coin)
	return args.Error(0)
}

func (m *mockStore) InsertCatCoin(ctx context.Context,
	cat protocol.CatCoin) error {

	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *mockStore) UnspentCoins(
	ctx context.Context) ([]protocol.Coin, error) {

	args := m.Called(ctx)

	coins, _ := args.Get(0).([]protocol.Coin)
	return coins, args.Error(1)
}

func (m *mockStore) UnspentCatCoins(ctx context.Context,
	assetID protocol.Bytes32) ([]protocol.CatCoin, error) {

	args := m.Called(ctx, assetID)

	cats, _ := args.Get(0).([]protocol.CatCoin)
	return cats, args.Error(1)
}

func (m *mockStore) ReserveCoins(ctx context.Context,
	coinIDs []protocol.Bytes32) error {

	args := m.Called(ctx, coinIDs)
	return args.Error(0)
}

func (m *mockStore) ReleaseCoins(ctx context.Context,
	coinIDs []protocol.Bytes32) error {

	args := m.Called(ctx, coinIDs)
	return args.Error(0)
}

func (m *mockStore) UpsertNft(ctx context.Context,
	record db.NftRecord) error {

	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockStore) Nft(ctx context.Context,
	launcherID protocol.Bytes32) (db.NftRecord, error) {

	args := m.Called(ctx, launcherID)
	return args.Get(0).(db.NftRecord), args.Error(1)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

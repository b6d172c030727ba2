// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
)

// CoinSelectionStrategy is an interface that represents a coin selection
// strategy. A strategy is responsible for ordering or shuffling eligible
// coins before they are passed to the greedy selection loop.
type CoinSelectionStrategy interface {
	// ArrangeCoins arranges eligible native coins.
	ArrangeCoins(eligible []protocol.Coin) []protocol.Coin

	// ArrangeCatCoins arranges eligible CAT coins.
	ArrangeCatCoins(eligible []protocol.CatCoin) []protocol.CatCoin
}

var (
	// CoinSelectionLargest always picks the largest available coin to
	// add to the spend next, minimizing the input count.
	CoinSelectionLargest CoinSelectionStrategy = &largestFirstSelector{}

	// CoinSelectionRandom selects the next coin at random. This
	// strategy prevents the creation of ever smaller coins over time.
	CoinSelectionRandom CoinSelectionStrategy = &randomSelector{}
)

// largestFirstSelector sorts coins by descending amount.
type largestFirstSelector struct{}

func (*largestFirstSelector) ArrangeCoins(
	eligible []protocol.Coin) []protocol.Coin {

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Amount > eligible[j].Amount
	})

	return eligible
}

func (*largestFirstSelector) ArrangeCatCoins(
	eligible []protocol.CatCoin) []protocol.CatCoin {

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Coin.Amount > eligible[j].Coin.Amount
	})

	return eligible
}

// randomSelector shuffles coins uniformly.
type randomSelector struct{}

func (*randomSelector) ArrangeCoins(
	eligible []protocol.Coin) []protocol.Coin {

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	return eligible
}

func (*randomSelector) ArrangeCatCoins(
	eligible []protocol.CatCoin) []protocol.CatCoin {

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	return eligible
}

// selectCoins takes arranged coins until the target is covered.
func selectCoins(arranged []protocol.Coin,
	target mojo.Amount) ([]protocol.Coin, error) {

	var (
		selected []protocol.Coin
		total    mojo.Amount
	)
	for _, coin := range arranged {
		if total >= target {
			break
		}

		sum, err := total.Add(coin.Amount)
		if err != nil {
			return nil, err
		}

		total = sum
		selected = append(selected, coin)
	}

	if total < target {
		return nil, fmt.Errorf("%w: have %d mojos, need %d",
			ErrInsufficientFunds, total, target)
	}

	return selected, nil
}

// selectCatCoins takes arranged CAT coins until the target is covered.
func selectCatCoins(arranged []protocol.CatCoin,
	target mojo.Amount) ([]protocol.CatCoin, error) {

	var (
		selected []protocol.CatCoin
		total    mojo.Amount
	)
	for _, cat := range arranged {
		if total >= target {
			break
		}

		sum, err := total.Add(cat.Coin.Amount)
		if err != nil {
			return nil, err
		}

		total = sum
		selected = append(selected, cat)
	}

	if total < target {
		return nil, fmt.Errorf("%w: have %d CAT mojos, need %d",
			ErrInsufficientFunds, total, target)
	}

	return selected, nil
}

// selectXchCoins lists, arranges and greedily selects native coins for
// the target amount. The caller reserves the result.
func (w *Wallet) selectXchCoins(ctx context.Context,
	target mojo.Amount) ([]protocol.Coin, error) {

	eligible, err := w.cfg.Store.UnspentCoins(ctx)
	if err != nil {
		return nil, err
	}

	return selectCoins(w.cfg.Strategy.ArrangeCoins(eligible), target)
}

// selectCatAsset lists, arranges and greedily selects coins of one CAT
// for the target amount. The caller reserves the result.
func (w *Wallet) selectCatAsset(ctx context.Context,
	assetID protocol.Bytes32,
	target mojo.Amount) ([]protocol.CatCoin, error) {

	eligible, err := w.cfg.Store.UnspentCatCoins(ctx, assetID)
	if err != nil {
		return nil, err
	}

	selected, err := selectCatCoins(
		w.cfg.Strategy.ArrangeCatCoins(eligible), target,
	)
	if err != nil {
		return nil, fmt.Errorf("asset %v: %w", assetID, err)
	}

	return selected, nil
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"fmt"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
)

// offeredNft pairs an offered NFT with the synthetic key controlling
// it.
type offeredNft struct {
	nft puzzles.Nft
	key protocol.PublicKey
}

// spendPlan carries everything a spend assembly needs: the selected
// coins per asset, the royalty obligations the maker pays grouped by
// the asset they are paid in, the assertion ring over the primary
// coins, and the trade prices attached to each offered NFT.
type spendPlan struct {
	spends *puzzles.SpendContext
	ring   *assertionRing

	offered       Offered
	changeHash    protocol.Bytes32
	xchCoins      []protocol.Coin
	catCoins      map[protocol.Bytes32][]protocol.CatCoin
	nfts          []offeredNft
	royaltiesPaid map[protocol.Bytes32][]RoyaltyPayment
	tradePrices   [][]puzzles.TradePrice
}

// spendAssets emits the offered side of the offer: one leg per asset.
// Each leg's first coin claims its share of the assertion ring; the
// rest of the leg merely asserts its first coin, which transitively
// binds every spend into the ring.
func (w *Wallet) spendAssets(ctx context.Context, plan *spendPlan) error {
	if err := w.spendXch(ctx, plan); err != nil {
		return err
	}

	for _, assetID := range sortedAssetIDs(plan.catCoins) {
		err := w.spendCat(ctx, plan, assetID)
		if err != nil {
			return fmt.Errorf("asset %v: %w", assetID, err)
		}
	}

	for i, offered := range plan.nfts {
		err := w.spendNft(plan, offered, plan.tradePrices[i])
		if err != nil {
			return fmt.Errorf("nft %v: %w",
				offered.nft.Info.LauncherID, err)
		}
	}

	return nil
}

// spendXch emits the native coin leg: the settlement coin for the
// offered amount, the royalty pool, the fee reservation, and change.
func (w *Wallet) spendXch(ctx context.Context, plan *spendPlan) error {
	if len(plan.xchCoins) == 0 {
		return nil
	}

	amounts := make([]mojo.Amount, len(plan.xchCoins))
	for i, coin := range plan.xchCoins {
		amounts[i] = coin.Amount
	}

	total, err := mojo.Sum(amounts...)
	if err != nil {
		return err
	}

	royalties := plan.royaltiesPaid[protocol.Bytes32{}]
	royaltySum, err := royaltyTotal(royalties)
	if err != nil {
		return err
	}

	spent, err := mojo.Sum(plan.offered.Xch, plan.offered.Fee, royaltySum)
	if err != nil {
		return err
	}

	change, err := total.Sub(spent)
	if err != nil {
		return fmt.Errorf("%w: %d spent of %d selected",
			ErrNegativeChange, spent, total)
	}

	first := plan.xchCoins[0]
	firstID := first.ID()

	conditions, err := plan.ring.claim(firstID)
	if err != nil {
		return err
	}

	if plan.offered.Xch > 0 {
		conditions = conditions.CreateCoin(
			puzzles.SettlementPaymentsHash, plan.offered.Xch,
		)
	}
	if royaltySum > 0 {
		conditions = conditions.CreateCoin(
			puzzles.SettlementPaymentsHash, royaltySum,
		)
	}
	if plan.offered.Fee > 0 {
		conditions = conditions.ReserveFee(plan.offered.Fee)
	}
	if change > 0 {
		conditions = conditions.CreateCoin(plan.changeHash, change)
	}

	if err := w.spendStandardCoin(ctx, plan, first, conditions); err != nil {
		return err
	}

	for _, coin := range plan.xchCoins[1:] {
		var link puzzles.Conditions
		link = link.AssertConcurrentSpend(firstID)

		err := w.spendStandardCoin(ctx, plan, coin, link)
		if err != nil {
			return err
		}
	}

	if royaltySum == 0 {
		return nil
	}

	// The royalty pool coin created above pays every native royalty in
	// one settlement spend, each payout notarized under its NFT.
	pool := protocol.NewCoin(
		firstID, puzzles.SettlementPaymentsHash, royaltySum,
	)

	return puzzles.SpendSettlementCoin(
		plan.spends, pool, notarizedRoyalties(royalties),
	)
}

// spendCat emits one CAT leg as a ring of CAT spends: the first coin
// creates the settlement coin, the royalty pool and change, all hinted,
// and declares the leg's whole output.
func (w *Wallet) spendCat(ctx context.Context, plan *spendPlan,
	assetID protocol.Bytes32) error {

	coins := plan.catCoins[assetID]
	if len(coins) == 0 {
		return nil
	}

	amounts := make([]mojo.Amount, len(coins))
	for i, cat := range coins {
		amounts[i] = cat.Coin.Amount
	}

	total, err := mojo.Sum(amounts...)
	if err != nil {
		return err
	}

	offered := plan.offered.Cats[assetID]

	royalties := plan.royaltiesPaid[assetID]
	royaltySum, err := royaltyTotal(royalties)
	if err != nil {
		return err
	}

	spent, err := offered.Add(royaltySum)
	if err != nil {
		return err
	}

	change, err := total.Sub(spent)
	if err != nil {
		return fmt.Errorf("%w: %d spent of %d selected",
			ErrNegativeChange, spent, total)
	}

	first := coins[0]
	firstID := first.Coin.ID()

	conditions, err := plan.ring.claim(firstID)
	if err != nil {
		return err
	}

	if offered > 0 {
		conditions = conditions.CreateCoin(
			puzzles.SettlementPaymentsHash, offered,
			puzzles.SettlementPaymentsHash[:],
		)
	}
	if royaltySum > 0 {
		conditions = conditions.CreateCoin(
			puzzles.SettlementPaymentsHash, royaltySum,
			puzzles.SettlementPaymentsHash[:],
		)
	}
	if change > 0 {
		conditions = conditions.CreateCoin(
			plan.changeHash, change, plan.changeHash[:],
		)
	}

	catSpends := make([]puzzles.CatSpend, len(coins))
	for i, cat := range coins {
		coinConditions := conditions
		if i > 0 {
			var link puzzles.Conditions
			coinConditions = link.AssertConcurrentSpend(firstID)
		}

		inner, solution, err := w.innerSpend(
			ctx, cat.P2PuzzleHash, coinConditions,
		)
		if err != nil {
			return err
		}

		catSpends[i] = puzzles.CatSpend{
			Cat:           cat,
			Inner:         inner,
			InnerSolution: solution,
		}
	}

	// The first coin's inner puzzle emits every output of the leg.
	catSpends[0].Output = total

	if err := puzzles.SpendCatCoins(plan.spends, catSpends); err != nil {
		return err
	}

	if royaltySum == 0 {
		return nil
	}

	// The royalty pool is itself a CAT coin; its parent is the leg's
	// first coin, which also serves as its lineage proof.
	settlement := puzzles.SettlementPuzzle()
	pool := puzzles.CatSpend{
		Cat: protocol.CatCoin{
			Coin: protocol.NewCoin(
				firstID,
				puzzles.CatPuzzle(assetID, settlement).Hash,
				royaltySum,
			),
			AssetID:      assetID,
			P2PuzzleHash: puzzles.SettlementPaymentsHash,
			LineageProof: protocol.LineageProof{
				ParentParentCoinInfo:  first.Coin.ParentCoinInfo,
				ParentInnerPuzzleHash: first.P2PuzzleHash,
				ParentAmount:          first.Coin.Amount,
			},
		},
		Inner:         settlement,
		InnerSolution: notarizedRoyaltiesNode(royalties),
		Output:        royaltySum,
	}

	return puzzles.SpendCatCoins(plan.spends, []puzzles.CatSpend{pool})
}

// spendNft locks one offered NFT into the settlement layer, carrying
// its trade prices and its share of the assertion ring.
func (w *Wallet) spendNft(plan *spendPlan, offered offeredNft,
	tradePrices []puzzles.TradePrice) error {

	extra, err := plan.ring.claim(offered.nft.Coin.ID())
	if err != nil {
		return err
	}

	return puzzles.LockSettlement(
		plan.spends, offered.nft,
		puzzles.NewStandardLayer(offered.key), tradePrices, extra,
	)
}

// spendStandardCoin spends one native coin through its standard layer.
func (w *Wallet) spendStandardCoin(ctx context.Context, plan *spendPlan,
	coin protocol.Coin, conditions puzzles.Conditions) error {

	key, err := w.syntheticKey(ctx, coin.PuzzleHash)
	if err != nil {
		return err
	}

	return puzzles.NewStandardLayer(key).Spend(
		plan.spends, coin, conditions,
	)
}

// innerSpend resolves a CAT coin's inner standard puzzle and the
// delegated solution for the given conditions.
func (w *Wallet) innerSpend(ctx context.Context,
	p2PuzzleHash protocol.Bytes32,
	conditions puzzles.Conditions) (puzzles.Puzzle, clvm.Node, error) {

	key, err := w.syntheticKey(ctx, p2PuzzleHash)
	if err != nil {
		return puzzles.Puzzle{}, nil, err
	}

	layer := puzzles.NewStandardLayer(key)

	return layer.Puzzle(), layer.DelegatedSolution(conditions), nil
}

// royaltyTotal sums royalty amounts with overflow checking.
func royaltyTotal(payments []RoyaltyPayment) (mojo.Amount, error) {
	var total mojo.Amount
	for _, payment := range payments {
		sum, err := total.Add(payment.Amount)
		if err != nil {
			return 0, err
		}

		total = sum
	}

	return total, nil
}

// notarizedRoyalties renders royalty obligations as notarized payments,
// one per royalty, each under its NFT's launcher id.
func notarizedRoyalties(
	payments []RoyaltyPayment) []puzzles.NotarizedPayment {

	nps := make([]puzzles.NotarizedPayment, len(payments))
	for i, payment := range payments {
		nps[i] = puzzles.NotarizedPayment{
			Nonce: payment.NftID,
			Payments: []puzzles.Payment{
				puzzles.NewPaymentWithMemo(
					payment.PuzzleHash, payment.Amount,
				),
			},
		}
	}

	return nps
}

// notarizedRoyaltiesNode is the settlement solution form of the
// royalties.
func notarizedRoyaltiesNode(payments []RoyaltyPayment) clvm.Node {
	nps := notarizedRoyalties(payments)

	items := make([]clvm.Node, len(nps))
	for i, np := range nps {
		items[i] = np.Node()
	}

	return clvm.List(items...)
}

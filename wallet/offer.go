// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
	"github.com/chiasuite/chiawallet/wallet/internal/db"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Offered is the maker side of an offer: the assets given away and the
// network fee the maker covers.
type Offered struct {
	// Xch is the offered native amount.
	Xch mojo.Amount

	// Fee is the network fee reserved from the maker's coins.
	Fee mojo.Amount

	// Cats maps asset ids to offered CAT amounts.
	Cats map[protocol.Bytes32]mojo.Amount

	// Nfts lists the launcher ids of offered NFTs.
	Nfts []protocol.Bytes32
}

// Requested is the taker side of an offer: what the maker wants in
// return.
type Requested struct {
	// Xch is the requested native amount.
	Xch mojo.Amount

	// Cats maps asset ids to requested CAT amounts.
	Cats map[protocol.Bytes32]mojo.Amount

	// Nfts lists the requested NFTs. Their layer parameters must be
	// supplied by the caller, since the wallet does not track foreign
	// NFTs.
	Nfts []RequestedNft
}

// RequestedNft describes an NFT the maker wants to receive.
type RequestedNft struct {
	// LauncherID is the NFT's identity.
	LauncherID protocol.Bytes32

	// Metadata is the NFT's serialized metadata program. It is carried
	// opaquely; the wallet only needs it to reconstruct the puzzle.
	Metadata protocol.Program

	// MetadataUpdaterHash is the state layer's updater hash.
	MetadataUpdaterHash protocol.Bytes32

	// RoyaltyPuzzleHash is where this NFT's royalties are paid.
	RoyaltyPuzzleHash protocol.Bytes32

	// RoyaltyTenThousandths is the royalty rate in 1/10000 units.
	RoyaltyTenThousandths uint16
}

// UnsignedOffer is the finished artifact of an offer build: the maker's
// coin spends plus the phantom spends describing the requested
// payments, ready for signing and encoding.
type UnsignedOffer struct {
	// CoinSpends are the offered spends followed by the requested
	// phantom spends.
	CoinSpends []protocol.CoinSpend

	// Nonce is the offer nonce the requested payments are notarized
	// under.
	Nonce protocol.Bytes32
}

// Bundle wraps the spends in a spend bundle with an empty aggregated
// signature, the form the signer and the offer codec consume.
func (o *UnsignedOffer) Bundle() protocol.SpendBundle {
	return protocol.SpendBundle{CoinSpends: o.CoinSpends}
}

// empty reports whether nothing of value is offered.
func (o Offered) empty() bool {
	return o.Xch == 0 && len(o.Cats) == 0 && len(o.Nfts) == 0
}

// empty reports whether nothing is requested.
func (r Requested) empty() bool {
	return r.Xch == 0 && len(r.Cats) == 0 && len(r.Nfts) == 0
}

// MakeOffer builds an unsigned offer: it selects and reserves coins for
// the offered side, computes royalties in both directions, notarizes
// the requested payments under the offer nonce, and assembles the spend
// set linked by the assertion ring. On any failure after coins were
// reserved, the reservation is released before returning.
func (w *Wallet) MakeOffer(ctx context.Context, offered Offered,
	requested Requested, hardened, reuse bool) (*UnsignedOffer, error) {

	if offered.empty() && requested.empty() {
		return nil, ErrEmptyOffer
	}

	receiveHash, err := w.receivePuzzleHash(ctx, hardened, reuse)
	if err != nil {
		return nil, err
	}

	// Royalties the maker pays: one per requested NFT and offered
	// asset, carved out of the offered amounts.
	royaltiesPaid, err := makerRoyalties(offered, requested)
	if err != nil {
		return nil, err
	}

	plan, err := w.selectOffered(ctx, offered, royaltiesPaid)
	if err != nil {
		return nil, err
	}

	coinIDs := plan.allCoinIDs()
	if err := w.cfg.Store.ReserveCoins(ctx, coinIDs); err != nil {
		return nil, err
	}

	offer, err := w.buildOffer(ctx, plan, offered, requested,
		receiveHash, royaltiesPaid)
	if err != nil {
		if relErr := w.cfg.Store.ReleaseCoins(ctx, coinIDs); relErr != nil {
			log.Errorf("Unable to release %d reserved coins "+
				"after failed offer build: %v", len(coinIDs),
				relErr)
		}

		return nil, err
	}

	log.Infof("Built offer %v with %d coin spends", offer.Nonce,
		len(offer.CoinSpends))

	return offer, nil
}

// selection is the reserved coin set of an offer build.
type selection struct {
	xchCoins []protocol.Coin
	catCoins map[protocol.Bytes32][]protocol.CatCoin
	nfts     []offeredNft
}

// allCoinIDs returns every selected coin id: natives, CATs in sorted
// asset order, then NFTs.
func (s *selection) allCoinIDs() []protocol.Bytes32 {
	var ids []protocol.Bytes32
	for _, coin := range s.xchCoins {
		ids = append(ids, coin.ID())
	}

	for _, assetID := range sortedAssetIDs(s.catCoins) {
		for _, cat := range s.catCoins[assetID] {
			ids = append(ids, cat.Coin.ID())
		}
	}

	for _, offered := range s.nfts {
		ids = append(ids, offered.nft.Coin.ID())
	}

	return ids
}

// primaryCoinIDs returns the first coin of each spent asset group, in
// spend order. These carry the assertion ring.
func (s *selection) primaryCoinIDs() []protocol.Bytes32 {
	var ids []protocol.Bytes32
	if len(s.xchCoins) > 0 {
		ids = append(ids, s.xchCoins[0].ID())
	}

	for _, assetID := range sortedAssetIDs(s.catCoins) {
		ids = append(ids, s.catCoins[assetID][0].Coin.ID())
	}

	for _, offered := range s.nfts {
		ids = append(ids, offered.nft.Coin.ID())
	}

	return ids
}

// selectOffered selects coins for every offered asset. Selection
// targets include the royalties paid in each asset, so the legs never
// come up short.
func (w *Wallet) selectOffered(ctx context.Context, offered Offered,
	royaltiesPaid map[protocol.Bytes32][]RoyaltyPayment) (*selection, error) {

	sel := &selection{
		catCoins: make(map[protocol.Bytes32][]protocol.CatCoin),
	}

	xchRoyalties, err := royaltyTotal(royaltiesPaid[protocol.Bytes32{}])
	if err != nil {
		return nil, err
	}

	xchTarget, err := mojo.Sum(offered.Xch, offered.Fee, xchRoyalties)
	if err != nil {
		return nil, err
	}

	if xchTarget > 0 {
		sel.xchCoins, err = w.selectXchCoins(ctx, xchTarget)
		if err != nil {
			return nil, err
		}

		log.Debugf("Selected %d native coins for %d mojos",
			len(sel.xchCoins), xchTarget)
	}

	for _, assetID := range sortedAssetIDs(offered.Cats) {
		catRoyalties, err := royaltyTotal(royaltiesPaid[assetID])
		if err != nil {
			return nil, err
		}

		target, err := offered.Cats[assetID].Add(catRoyalties)
		if err != nil {
			return nil, err
		}

		if target == 0 {
			continue
		}

		coins, err := w.selectCatAsset(ctx, assetID, target)
		if err != nil {
			return nil, err
		}

		sel.catCoins[assetID] = coins
	}

	for _, launcherID := range offered.Nfts {
		loaded, err := w.loadNft(ctx, launcherID)
		if err != nil {
			return nil, err
		}

		sel.nfts = append(sel.nfts, loaded)
	}

	return sel, nil
}

// loadNft resolves an offered NFT's record and controlling key.
func (w *Wallet) loadNft(ctx context.Context,
	launcherID protocol.Bytes32) (offeredNft, error) {

	record, err := w.cfg.Store.Nft(ctx, launcherID)
	if errors.Is(err, db.ErrNotFound) {
		return offeredNft{}, fmt.Errorf("%w: %v", ErrMissingNft,
			launcherID)
	}
	if err != nil {
		return offeredNft{}, err
	}

	metadata, err := clvm.Deserialize(record.Metadata)
	if err != nil {
		return offeredNft{}, fmt.Errorf("nft %v metadata: %w",
			launcherID, err)
	}

	owner := fn.None[protocol.Bytes32]()
	if !record.CurrentOwner.IsZero() {
		owner = fn.Some(record.CurrentOwner)
	}

	key, err := w.syntheticKey(ctx, record.P2PuzzleHash)
	if err != nil {
		return offeredNft{}, err
	}

	return offeredNft{
		nft: puzzles.Nft{
			Coin: record.Coin,
			Info: puzzles.NftInfo{
				LauncherID:            record.LauncherID,
				Metadata:              metadata,
				MetadataUpdaterHash:   record.MetadataUpdaterHash,
				CurrentOwner:          owner,
				RoyaltyPuzzleHash:     record.RoyaltyPuzzleHash,
				RoyaltyTenThousandths: record.RoyaltyTenThousandths,
				P2PuzzleHash:          record.P2PuzzleHash,
			},
			LineageProof: record.LineageProof,
		},
		key: key,
	}, nil
}

// buildOffer runs the post-reservation half of the pipeline: nonce,
// requested payments, royalty assertions, ring seeding, and spend
// assembly.
func (w *Wallet) buildOffer(ctx context.Context, sel *selection,
	offered Offered, requested Requested,
	receiveHash protocol.Bytes32,
	royaltiesPaid map[protocol.Bytes32][]RoyaltyPayment) (*UnsignedOffer,
	error) {

	nonce := offerNonce(sel.allCoinIDs())

	builder := NewOfferBuilder(nonce)

	if requested.Xch > 0 {
		builder = builder.RequestPayment(
			puzzles.SettlementPuzzle(),
			[]puzzles.Payment{
				puzzles.NewPayment(receiveHash, requested.Xch),
			},
		)
	}

	for _, assetID := range sortedAssetIDs(requested.Cats) {
		amount := requested.Cats[assetID]
		if amount == 0 {
			continue
		}

		builder = builder.RequestPayment(
			puzzles.CatPuzzle(assetID, puzzles.SettlementPuzzle()),
			[]puzzles.Payment{
				puzzles.NewPaymentWithMemo(receiveHash, amount),
			},
		)
	}

	for _, nft := range requested.Nfts {
		puzzle, err := requestedNftPuzzle(nft)
		if err != nil {
			return nil, err
		}

		builder = builder.RequestPayment(puzzle, []puzzles.Payment{
			puzzles.NewPaymentWithMemo(receiveHash, 1),
		})
	}

	// Royalties the taker pays: one per offered NFT and requested
	// asset. The maker asserts their payouts so the trade cannot
	// settle without them.
	theirRoyalties, tradePrices, err := takerRoyalties(sel, requested)
	if err != nil {
		return nil, err
	}

	assertions, requestedSpends := builder.Finish()
	assertions = append(assertions, RoyaltyAssertions(theirRoyalties)...)

	ring := newAssertionRing(sel.primaryCoinIDs(), assertions)

	plan := &spendPlan{
		spends:        puzzles.NewSpendContext(),
		ring:          ring,
		offered:       offered,
		changeHash:    receiveHash,
		xchCoins:      sel.xchCoins,
		catCoins:      sel.catCoins,
		nfts:          sel.nfts,
		royaltiesPaid: royaltiesPaid,
		tradePrices:   tradePrices,
	}

	if err := w.spendAssets(ctx, plan); err != nil {
		return nil, err
	}

	if n := ring.unclaimed(); n != 0 {
		return nil, fmt.Errorf("%d assertion ring shares left "+
			"unclaimed", n)
	}

	coinSpends := plan.spends.Take()
	for _, requestedSpend := range requestedSpends {
		spend, err := requestedSpend.CoinSpend()
		if err != nil {
			return nil, err
		}

		coinSpends = append(coinSpends, spend)
	}

	return &UnsignedOffer{CoinSpends: coinSpends, Nonce: nonce}, nil
}

// makerRoyalties computes the royalties the maker pays on requested
// NFTs, grouped by the asset they are paid in.
func makerRoyalties(offered Offered,
	requested Requested) (map[protocol.Bytes32][]RoyaltyPayment, error) {

	if len(requested.Nfts) == 0 {
		return nil, nil
	}

	infos := make([]NftRoyaltyInfo, len(requested.Nfts))
	for i, nft := range requested.Nfts {
		infos[i] = NftRoyaltyInfo{
			LauncherID:     nft.LauncherID,
			PuzzleHash:     nft.RoyaltyPuzzleHash,
			TenThousandths: nft.RoyaltyTenThousandths,
		}
	}

	prices := CalculateAssetPrices(
		len(requested.Nfts), offered.Xch, offered.Cats,
	)

	payments, err := CalculateAssetRoyalties(infos, prices)
	if err != nil {
		return nil, err
	}

	grouped := make(map[protocol.Bytes32][]RoyaltyPayment)
	for _, payment := range payments {
		grouped[payment.AssetID] = append(
			grouped[payment.AssetID], payment,
		)
	}

	return grouped, nil
}

// takerRoyalties computes the royalties the taker owes on offered NFTs
// and the trade price lists those NFTs carry into settlement.
func takerRoyalties(sel *selection,
	requested Requested) ([]RoyaltyPayment, [][]puzzles.TradePrice,
	error) {

	if len(sel.nfts) == 0 {
		return nil, nil, nil
	}

	infos := make([]NftRoyaltyInfo, len(sel.nfts))
	for i, offered := range sel.nfts {
		infos[i] = NftRoyaltyInfo{
			LauncherID:     offered.nft.Info.LauncherID,
			PuzzleHash:     offered.nft.Info.RoyaltyPuzzleHash,
			TenThousandths: offered.nft.Info.RoyaltyTenThousandths,
		}
	}

	prices := CalculateAssetPrices(
		len(sel.nfts), requested.Xch, requested.Cats,
	)

	payments, err := CalculateAssetRoyalties(infos, prices)
	if err != nil {
		return nil, nil, err
	}

	tradePrices := make([][]puzzles.TradePrice, len(prices))
	for i, assetPrices := range prices {
		for _, price := range assetPrices {
			tradePrices[i] = append(tradePrices[i],
				puzzles.SettlementTradePrice(
					price.Amount,
					settlementHashForAsset(price.AssetID),
				))
		}
	}

	return payments, tradePrices, nil
}

// requestedNftPuzzle reconstructs a requested NFT's puzzle with the
// settlement layer as its inner puzzle. Settlement clears ownership, so
// the puzzle is built with no owner.
func requestedNftPuzzle(nft RequestedNft) (puzzles.Puzzle, error) {
	metadata, err := clvm.Deserialize(nft.Metadata)
	if err != nil {
		return puzzles.Puzzle{}, fmt.Errorf("nft %v metadata: %w",
			nft.LauncherID, err)
	}

	info := puzzles.NftInfo{
		LauncherID:            nft.LauncherID,
		Metadata:              metadata,
		MetadataUpdaterHash:   nft.MetadataUpdaterHash,
		CurrentOwner:          fn.None[protocol.Bytes32](),
		RoyaltyPuzzleHash:     nft.RoyaltyPuzzleHash,
		RoyaltyTenThousandths: nft.RoyaltyTenThousandths,
		P2PuzzleHash:          puzzles.SettlementPaymentsHash,
	}

	return puzzles.NftPuzzle(info, puzzles.SettlementPuzzle()), nil
}

// offerNonce derives the offer nonce from the selected coin set: the
// tree hash of the sorted coin id list. Sorting makes the nonce
// independent of selection order.
func offerNonce(coinIDs []protocol.Bytes32) protocol.Bytes32 {
	sorted := make([]protocol.Bytes32, len(coinIDs))
	copy(sorted, coinIDs)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i][:]) < string(sorted[j][:])
	})

	items := make([]clvm.Node, len(sorted))
	for i := range sorted {
		items[i] = clvm.Atom(sorted[i][:])
	}

	return protocol.Bytes32(clvm.TreeHash(clvm.List(items...)))
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"sort"

	"github.com/chiasuite/chiawallet/pkg/mojo"
	"github.com/chiasuite/chiawallet/protocol"
	"github.com/chiasuite/chiawallet/puzzles"
)

// royaltyDivisor converts a royalty rate in ten-thousandths into an
// amount: royalty = floor(price * rate / 10000).
const royaltyDivisor = 10000

// AssetPrice is one NFT's share of an offered amount in one asset. A
// zero AssetID denotes the native asset.
type AssetPrice struct {
	// AssetID identifies the CAT, or zero for XCH.
	AssetID protocol.Bytes32

	// Amount is the share in mojos.
	Amount mojo.Amount
}

// AssetPrices is the per-asset price list of a single NFT.
type AssetPrices []AssetPrice

// NftRoyaltyInfo is the royalty-relevant subset of an NFT.
type NftRoyaltyInfo struct {
	// LauncherID is the NFT's identity, used as the royalty payment
	// nonce so payouts stay traceable per NFT.
	LauncherID protocol.Bytes32

	// PuzzleHash is the royalty destination.
	PuzzleHash protocol.Bytes32

	// TenThousandths is the royalty rate in 1/10000 units.
	TenThousandths uint16
}

// RoyaltyPayment is one royalty obligation: an amount of one asset owed
// to an NFT creator.
type RoyaltyPayment struct {
	// NftID is the launcher id of the NFT the royalty belongs to.
	NftID protocol.Bytes32

	// AssetID identifies the CAT the royalty is paid in, or zero for
	// XCH.
	AssetID protocol.Bytes32

	// PuzzleHash is the royalty destination.
	PuzzleHash protocol.Bytes32

	// Amount is the royalty value.
	Amount mojo.Amount
}

// CalculateAssetPrices splits the offered amounts evenly across the
// NFTs on the other side of the trade, one price list per NFT. The
// division remainder of each asset is folded into the first NFT's
// share so the lists sum back to the offered totals. CAT assets are
// walked in sorted order to keep the result deterministic.
func CalculateAssetPrices(nftCount int, xch mojo.Amount,
	cats map[protocol.Bytes32]mojo.Amount) []AssetPrices {

	if nftCount == 0 {
		return nil
	}

	count := mojo.Amount(nftCount)

	type split struct {
		assetID   protocol.Bytes32
		share     mojo.Amount
		remainder mojo.Amount
	}

	var splits []split
	if xch > 0 {
		splits = append(splits, split{
			share:     xch / count,
			remainder: xch % count,
		})
	}

	for _, assetID := range sortedAssetIDs(cats) {
		amount := cats[assetID]
		if amount == 0 {
			continue
		}

		splits = append(splits, split{
			assetID:   assetID,
			share:     amount / count,
			remainder: amount % count,
		})
	}

	prices := make([]AssetPrices, nftCount)
	for i := range prices {
		for _, s := range splits {
			amount := s.share
			if i == 0 {
				amount += s.remainder
			}

			prices[i] = append(prices[i], AssetPrice{
				AssetID: s.assetID,
				Amount:  amount,
			})
		}
	}

	return prices
}

// CalculateAssetRoyalties computes the royalty obligations of a trade:
// one payment per NFT and asset price, floored and with zero amounts
// dropped. The price lists must line up with the NFT list.
func CalculateAssetRoyalties(nfts []NftRoyaltyInfo,
	prices []AssetPrices) ([]RoyaltyPayment, error) {

	if len(nfts) != len(prices) {
		return nil, ErrPriceMismatch
	}

	var payments []RoyaltyPayment
	for i, nft := range nfts {
		if nft.TenThousandths == 0 {
			continue
		}

		for _, price := range prices[i] {
			amount, err := price.Amount.MulDiv(
				uint64(nft.TenThousandths), royaltyDivisor,
			)
			if err != nil {
				return nil, err
			}

			if amount == 0 {
				continue
			}

			payments = append(payments, RoyaltyPayment{
				NftID:      nft.LauncherID,
				AssetID:    price.AssetID,
				PuzzleHash: nft.PuzzleHash,
				Amount:     amount,
			})
		}
	}

	return payments, nil
}

// RoyaltyAssertions converts royalty obligations owed by the other side
// into puzzle announcement assertions, forcing the payouts to exist in
// the same transaction as the trade. Each royalty is notarized under
// its NFT's launcher id at the asset's settlement puzzle hash.
func RoyaltyAssertions(payments []RoyaltyPayment) puzzles.Conditions {
	var conditions puzzles.Conditions
	for _, payment := range payments {
		np := puzzles.NotarizedPayment{
			Nonce: payment.NftID,
			Payments: []puzzles.Payment{
				puzzles.NewPaymentWithMemo(
					payment.PuzzleHash, payment.Amount,
				),
			},
		}

		conditions = conditions.AssertPuzzleAnnouncement(
			puzzles.SettlementAnnouncementID(
				settlementHashForAsset(payment.AssetID), np,
			),
		)
	}

	return conditions
}

// settlementHashForAsset returns the puzzle hash a settlement coin of
// the given asset carries on chain.
func settlementHashForAsset(assetID protocol.Bytes32) protocol.Bytes32 {
	if assetID.IsZero() {
		return puzzles.SettlementPaymentsHash
	}

	return puzzles.CatPuzzle(
		assetID, puzzles.SettlementPuzzle(),
	).Hash
}

// sortedAssetIDs returns the map's keys in ascending byte order.
func sortedAssetIDs[V any](m map[protocol.Bytes32]V) []protocol.Bytes32 {
	ids := make([]protocol.Bytes32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return string(ids[i][:]) < string(ids[j][:])
	})

	return ids
}

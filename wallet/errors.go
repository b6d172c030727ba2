// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import "errors"

var (
	// ErrNilConfig is returned when a wallet is constructed without a
	// config.
	ErrNilConfig = errors.New("nil config")

	// ErrNilStore is returned when a wallet is constructed without a
	// store.
	ErrNilStore = errors.New("nil store")

	// ErrEmptyOffer is returned when an offer neither offers nor
	// requests anything.
	ErrEmptyOffer = errors.New("offer is empty on both sides")

	// ErrInsufficientFunds is returned when the unreserved coin set
	// cannot cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMissingNft is returned when an offered NFT is not tracked by
	// the store.
	ErrMissingNft = errors.New("nft not found")

	// ErrMissingKey is returned when no synthetic key is known for a
	// coin's p2 puzzle hash.
	ErrMissingKey = errors.New("synthetic key not found")

	// ErrNegativeChange is returned when a spend plan does not cover
	// its outputs. Selection targets include royalties and fees, so
	// hitting this means the plan itself is inconsistent.
	ErrNegativeChange = errors.New("negative change")

	// ErrPriceMismatch is returned when a royalty computation is given
	// mismatched NFT and price lists.
	ErrPriceMismatch = errors.New("mismatched nft and price lists")

	// ErrAssertionClaimed is returned when an offer coin's assertion
	// link is claimed twice.
	ErrAssertionClaimed = errors.New("assertion link already claimed")

	// ErrUnknownPrimaryCoin is returned when an assertion link is
	// claimed for a coin outside the offer's primary coin set.
	ErrUnknownPrimaryCoin = errors.New("unknown primary coin")
)

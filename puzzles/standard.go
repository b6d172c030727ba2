// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"github.com/chiasuite/chiawallet/clvm"
	"github.com/chiasuite/chiawallet/protocol"
)

// StandardLayer is the standard p2 puzzle keyed by a synthetic public
// key. It releases value by running a delegated puzzle supplied in the
// solution and signed by the key; the wallet's delegated puzzles are
// always quoted condition lists.
type StandardLayer struct {
	// SyntheticKey is the BLS key the layer is curried with.
	SyntheticKey protocol.PublicKey
}

// NewStandardLayer builds a standard layer for a synthetic key.
func NewStandardLayer(key protocol.PublicKey) StandardLayer {
	return StandardLayer{SyntheticKey: key}
}

// Puzzle returns the standard puzzle curried with the synthetic key.
func (l StandardLayer) Puzzle() Puzzle {
	return curry(p2Mod, clvm.Atom(l.SyntheticKey.Bytes()))
}

// DelegatedSolution returns the standard solution that runs the quoted
// condition list: (() (q . conditions) ()).
func (l StandardLayer) DelegatedSolution(conditions Conditions) clvm.Node {
	delegated := clvm.Pair{
		First: clvm.Atom{0x01},
		Rest:  conditions.Node(),
	}

	return clvm.List(clvm.Nil, delegated, clvm.Nil)
}

// Spend emits the spend of a standard coin carrying the given
// conditions.
func (l StandardLayer) Spend(ctx *SpendContext, coin protocol.Coin,
	conditions Conditions) error {

	return ctx.Spend(coin, l.Puzzle(), l.DelegatedSolution(conditions))
}

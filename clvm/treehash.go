// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"crypto/sha256"
)

const (
	// atomPrefix is the domain separator for atom hashes.
	atomPrefix = 0x01

	// pairPrefix is the domain separator for pair hashes.
	pairPrefix = 0x02
)

// TreeHash returns the standard CLVM tree hash of a node:
// sha256(1 || atom) for atoms and sha256(2 || hash(first) || hash(rest))
// for pairs. Puzzle hashes are tree hashes of puzzle programs.
func TreeHash(node Node) [32]byte {
	switch n := node.(type) {
	case nil:
		return AtomHash(nil)

	case Atom:
		return AtomHash(n)

	case Pair:
		first := TreeHash(n.First)
		rest := TreeHash(n.Rest)

		return PairHash(first, rest)

	default:
		panic("clvm: unknown node type")
	}
}

// AtomHash returns the tree hash of an atom leaf.
func AtomHash(atom Atom) [32]byte {
	h := sha256.New()
	h.Write([]byte{atomPrefix})
	h.Write(atom)

	var out [32]byte
	h.Sum(out[:0])

	return out
}

// PairHash combines two subtree hashes into the hash of their cons cell.
func PairHash(first, rest [32]byte) [32]byte {
	h := sha256.New()
	h.Write([]byte{pairPrefix})
	h.Write(first[:])
	h.Write(rest[:])

	var out [32]byte
	h.Sum(out[:0])

	return out
}

// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

// CLVM operator atoms used by the curry encoding.
var (
	opQuote = Atom{0x01}
	opApply = Atom{0x02}
	opCons  = Atom{0x04}
)

// Curry binds arguments into a program, producing
//
//	(a (q . mod) (c (q . arg1) (c (q . arg2) ... 1)))
//
// which runs mod with the given arguments prepended to the solution. This
// is how puzzle layers are parameterized: a CAT puzzle is the CAT module
// curried with its asset id and inner puzzle, and so on.
func Curry(mod Node, args ...Node) Node {
	var env Node = opQuote
	for i := len(args) - 1; i >= 0; i-- {
		env = List(opCons, quote(args[i]), env)
	}

	return List(opApply, quote(mod), env)
}

// quote wraps a node as (q . node).
func quote(node Node) Node {
	return Pair{First: opQuote, Rest: node}
}

// CurriedTreeHash computes the tree hash of Curry(mod, args...) from the
// tree hashes of the module and arguments alone, without materializing
// the curried program. This is what makes it possible to address puzzles
// (compute CREATE_COIN targets) for layers whose full program never needs
// to be revealed by this side of a trade.
func CurriedTreeHash(modHash [32]byte, argHashes ...[32]byte) [32]byte {
	quoteHash := AtomHash(opQuote)
	applyHash := AtomHash(opApply)
	consHash := AtomHash(opCons)
	nilHash := AtomHash(nil)

	// env starts as the bare environment reference `1` and is wrapped
	// once per argument, innermost last.
	env := quoteHash
	for i := len(argHashes) - 1; i >= 0; i-- {
		quotedArg := PairHash(quoteHash, argHashes[i])

		// (c (q . arg) env) as a proper list.
		env = PairHash(consHash, PairHash(
			quotedArg, PairHash(env, nilHash),
		))
	}

	quotedMod := PairHash(quoteHash, modHash)

	// (a (q . mod) env) as a proper list.
	return PairHash(applyHash, PairHash(
		quotedMod, PairHash(env, nilHash),
	))
}

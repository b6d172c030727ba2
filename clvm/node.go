// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package clvm implements the minimal CLVM value model needed to build
// puzzles: atoms and pairs, canonical serialization, the standard tree
// hash, and currying. It deliberately does not evaluate programs; the
// wallet only ever constructs them.
package clvm

import (
	"math/bits"
)

// Node is a CLVM value: either an Atom or a Pair. The nil Node is the
// empty atom, which also terminates proper lists.
type Node interface {
	// isNode is a marker method restricting implementations to this
	// package. CLVM has exactly two value shapes.
	isNode()
}

// Atom is a byte-string leaf value.
type Atom []byte

// Pair is a cons cell.
type Pair struct {
	First Node
	Rest  Node
}

func (Atom) isNode() {}
func (Pair) isNode() {}

// Nil is the empty atom, used as the list terminator.
var Nil = Atom(nil)

// List builds a nil-terminated proper list from the given items.
func List(items ...Node) Node {
	var node Node = Nil
	for i := len(items) - 1; i >= 0; i-- {
		node = Pair{First: items[i], Rest: node}
	}

	return node
}

// Int returns the canonical CLVM integer encoding of an unsigned value: a
// minimal-length big-endian two's complement atom. Zero encodes as the
// empty atom, and a leading zero byte is added when the top bit would
// otherwise flip the sign.
func Int(v uint64) Atom {
	if v == 0 {
		return Nil
	}

	size := (bits.Len64(v) + 8) / 8
	buf := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}

	return buf
}

// SignedInt returns the canonical CLVM encoding of a signed value.
func SignedInt(v int64) Atom {
	if v >= 0 {
		return Int(uint64(v))
	}

	buf := make([]byte, 8)
	u := uint64(v)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(u)
		u >>= 8
	}

	// Trim redundant sign bytes: a leading 0xff is droppable while the
	// next byte still carries the sign bit.
	for len(buf) > 1 && buf[0] == 0xff && buf[1]&0x80 != 0 {
		buf = buf[1:]
	}

	return buf
}

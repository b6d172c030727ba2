// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	// consToken is the serialization marker for a pair.
	consToken = 0xff

	// emptyAtomToken is the serialization of the empty atom.
	emptyAtomToken = 0x80
)

var (
	// ErrAtomTooLarge is returned when an atom exceeds the maximum
	// serializable length.
	ErrAtomTooLarge = errors.New("atom too large to serialize")

	// ErrTruncated is returned when a serialized program ends before the
	// value is complete.
	ErrTruncated = errors.New("serialized program truncated")

	// ErrTrailingBytes is returned when extra bytes follow a complete
	// serialized value.
	ErrTrailingBytes = errors.New("trailing bytes after program")
)

// Serialize encodes a node in the canonical CLVM serialization format.
func Serialize(node Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := serialize(&buf, node); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func serialize(buf *bytes.Buffer, node Node) error {
	switch n := node.(type) {
	case nil:
		buf.WriteByte(emptyAtomToken)

	case Atom:
		return serializeAtom(buf, n)

	case Pair:
		buf.WriteByte(consToken)
		if err := serialize(buf, n.First); err != nil {
			return err
		}

		return serialize(buf, n.Rest)

	default:
		return fmt.Errorf("unknown node type %T", node)
	}

	return nil
}

// serializeAtom writes an atom with its size prefix. Atom lengths are
// encoded in a variable-width prefix whose leading ones indicate the
// number of size bytes, mirroring UTF-8.
func serializeAtom(buf *bytes.Buffer, atom Atom) error {
	size := uint64(len(atom))

	switch {
	case size == 0:
		buf.WriteByte(emptyAtomToken)
		return nil

	case size == 1 && atom[0] <= 0x7f:
		buf.WriteByte(atom[0])
		return nil

	case size < 0x40:
		buf.WriteByte(0x80 | byte(size))

	case size < 0x2000:
		buf.WriteByte(0xc0 | byte(size>>8))
		buf.WriteByte(byte(size))

	case size < 0x100000:
		buf.WriteByte(0xe0 | byte(size>>16))
		buf.WriteByte(byte(size >> 8))
		buf.WriteByte(byte(size))

	default:
		return fmt.Errorf("%w: %d bytes", ErrAtomTooLarge, size)
	}

	buf.Write(atom)

	return nil
}

// Deserialize decodes a canonical CLVM serialization. The input must
// contain exactly one value.
func Deserialize(data []byte) (Node, error) {
	r := bytes.NewReader(data)

	node, err := deserialize(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, ErrTrailingBytes
	}

	return node, nil
}

func deserialize(r *bytes.Reader) (Node, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, ErrTruncated
	}

	switch {
	case b == consToken:
		first, err := deserialize(r)
		if err != nil {
			return nil, err
		}

		rest, err := deserialize(r)
		if err != nil {
			return nil, err
		}

		return Pair{First: first, Rest: rest}, nil

	case b == emptyAtomToken:
		return Nil, nil

	case b <= 0x7f:
		return Atom{b}, nil
	}

	size, err := atomSize(r, b)
	if err != nil {
		return nil, err
	}

	atom := make(Atom, size)
	if _, err := io.ReadFull(r, atom); err != nil {
		return nil, ErrTruncated
	}

	return atom, nil
}

// atomSize decodes the variable-width atom length from the first prefix
// byte and any continuation bytes.
func atomSize(r *bytes.Reader, prefix byte) (uint64, error) {
	var (
		size uint64
		more int
	)
	switch {
	case prefix&0xc0 == 0x80:
		size = uint64(prefix & 0x3f)

	case prefix&0xe0 == 0xc0:
		size = uint64(prefix & 0x1f)
		more = 1

	case prefix&0xf0 == 0xe0:
		size = uint64(prefix & 0x0f)
		more = 2

	default:
		return 0, fmt.Errorf("%w: size prefix 0x%02x",
			ErrAtomTooLarge, prefix)
	}

	for i := 0; i < more; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrTruncated
		}

		size = size<<8 | uint64(b)
	}

	return size, nil
}

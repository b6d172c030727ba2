// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	"errors"

	blst "github.com/supranational/blst/bindings/go"
)

// PublicKeySize is the size of a compressed BLS12-381 G1 public key.
const PublicKeySize = 48

var (
	// ErrInvalidPublicKey is returned when public key bytes do not
	// decode to a valid G1 group element.
	ErrInvalidPublicKey = errors.New("invalid BLS public key")
)

// PublicKey is a BLS12-381 G1 public key. The wallet tracks a synthetic
// public key per derived puzzle hash; the standard puzzle is the synthetic
// key curried into the p2 module.
type PublicKey struct {
	point *blst.P1Affine
}

// NewPublicKey decodes a compressed 48-byte G1 point, rejecting values
// that are not in the group or not the compressed encoding.
func NewPublicKey(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, ErrInvalidPublicKey
	}

	point := new(blst.P1Affine).Uncompress(b)
	if point == nil || !point.KeyValidate() {
		return PublicKey{}, ErrInvalidPublicKey
	}

	return PublicKey{point: point}, nil
}

// Bytes returns the compressed 48-byte encoding.
func (pk PublicKey) Bytes() []byte {
	return pk.point.Compress()
}

// IsValid reports whether the key holds a decoded point.
func (pk PublicKey) IsValid() bool {
	return pk.point != nil
}

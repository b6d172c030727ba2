// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import "errors"

var (
	// ErrNilDB is returned when a store is constructed around a nil
	// database handle.
	ErrNilDB = errors.New("nil database handle")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCoinReserved is returned when a reservation names a coin that
	// is already reserved, already spent, or unknown.
	ErrCoinReserved = errors.New("coin already reserved or spent")

	// errInvalidAmountBlob is returned when a stored amount is not the
	// fixed 8-byte encoding.
	errInvalidAmountBlob = errors.New("invalid amount blob")

	// errInvalidHashBlob is returned when a stored hash column is not
	// 32 bytes.
	errInvalidHashBlob = errors.New("invalid hash blob")
)

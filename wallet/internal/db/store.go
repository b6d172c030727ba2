// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chiasuite/chiawallet/protocol"
)

// dialect selects the placeholder style of the backend.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStore implements Store on top of database/sql. The same
// hand-written queries serve both backends; only placeholder syntax
// differs, handled by rebind.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// A compile-time assertion that SQLStore satisfies Store.
var _ Store = (*SQLStore)(nil)

func newSQLStore(db *sql.DB, d dialect) (*SQLStore, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	return &SQLStore{db: db, dialect: d}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind converts ?-placeholders to the backend's native form.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

// inClause returns a "?, ?, ..." list for n values.
func inClause(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// InsertDerivation records a new derivation row.
func (s *SQLStore) InsertDerivation(ctx context.Context,
	params DerivationParams) error {

	query := s.rebind(`
		INSERT INTO derivations (
			p2_puzzle_hash, idx, hardened, synthetic_key, used
		) VALUES (?, ?, ?, ?, 0)`)

	_, err := s.db.ExecContext(
		ctx, query, params.P2PuzzleHash[:], int64(params.Index),
		boolToInt64(params.Hardened), params.SyntheticKey.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("insert derivation: %w", err)
	}

	return nil
}

// DerivationIndex returns the next unassigned derivation index for the
// given path kind.
func (s *SQLStore) DerivationIndex(ctx context.Context,
	hardened bool) (uint32, error) {

	query := s.rebind(`
		SELECT COALESCE(MAX(idx) + 1, 0)
		FROM derivations
		WHERE hardened = ?`)

	var next int64
	err := s.db.QueryRowContext(
		ctx, query, boolToInt64(hardened),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("derivation index: %w", err)
	}

	return int64ToUint32(next)
}

// ReceivePuzzleHash returns a receive puzzle hash. With reuse set, the
// most recently derived hash is returned unchanged; otherwise the first
// unused derivation is claimed and marked used, so the next call hands
// out a fresh hash.
func (s *SQLStore) ReceivePuzzleHash(ctx context.Context, hardened,
	reuse bool) (protocol.Bytes32, error) {

	if reuse {
		query := s.rebind(`
			SELECT p2_puzzle_hash
			FROM derivations
			WHERE hardened = ?
			ORDER BY idx DESC
			LIMIT 1`)

		var raw []byte
		err := s.db.QueryRowContext(
			ctx, query, boolToInt64(hardened),
		).Scan(&raw)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return protocol.Bytes32{}, ErrNotFound
		case err != nil:
			return protocol.Bytes32{}, fmt.Errorf(
				"receive puzzle hash: %w", err)
		}

		return bytes32FromRow(raw)
	}

	var out protocol.Bytes32
	err := execInTx(ctx, s.db, func(tx *sql.Tx) error {
		query := s.rebind(`
			SELECT p2_puzzle_hash
			FROM derivations
			WHERE hardened = ? AND used = 0
			ORDER BY idx ASC
			LIMIT 1`)

		var raw []byte
		err := tx.QueryRowContext(
			ctx, query, boolToInt64(hardened),
		).Scan(&raw)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		case err != nil:
			return fmt.Errorf("receive puzzle hash: %w", err)
		}

		out, err = bytes32FromRow(raw)
		if err != nil {
			return err
		}

		update := s.rebind(`
			UPDATE derivations
			SET used = 1
			WHERE p2_puzzle_hash = ?`)

		if _, err := tx.ExecContext(ctx, update, raw); err != nil {
			return fmt.Errorf("mark derivation used: %w", err)
		}

		return nil
	})
	if err != nil {
		return protocol.Bytes32{}, err
	}

	return out, nil
}

// SyntheticKey returns the synthetic public key for a derived p2
// puzzle hash.
func (s *SQLStore) SyntheticKey(ctx context.Context,
	p2PuzzleHash protocol.Bytes32) (protocol.PublicKey, error) {

	query := s.rebind(`
		SELECT synthetic_key
		FROM derivations
		WHERE p2_puzzle_hash = ?`)

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, p2PuzzleHash[:]).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return protocol.PublicKey{}, ErrNotFound
	case err != nil:
		return protocol.PublicKey{}, fmt.Errorf(
			"synthetic key: %w", err)
	}

	return protocol.NewPublicKey(raw)
}

// InsertCoin records a new unspent native coin.
func (s *SQLStore) InsertCoin(ctx context.Context,
	coin protocol.Coin) error {

	query := s.rebind(`
		INSERT INTO coins (
			coin_id, parent_coin_info, puzzle_hash, amount,
			spent, reserved
		) VALUES (?, ?, ?, ?, 0, 0)`)

	coinID := coin.ID()
	_, err := s.db.ExecContext(
		ctx, query, coinID[:], coin.ParentCoinInfo[:],
		coin.PuzzleHash[:], amountToBytes(coin.Amount),
	)
	if err != nil {
		return fmt.Errorf("insert coin: %w", err)
	}

	return nil
}

// InsertCatCoin records a new unspent CAT coin together with its inner
// puzzle hash and lineage proof.
func (s *SQLStore) InsertCatCoin(ctx context.Context,
	cat protocol.CatCoin) error {

	query := s.rebind(`
		INSERT INTO coins (
			coin_id, parent_coin_info, puzzle_hash, amount,
			asset_id, p2_puzzle_hash, lineage_parent_parent,
			lineage_parent_inner, lineage_parent_amount,
			spent, reserved
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)`)

	coinID := cat.Coin.ID()
	_, err := s.db.ExecContext(
		ctx, query, coinID[:], cat.Coin.ParentCoinInfo[:],
		cat.Coin.PuzzleHash[:], amountToBytes(cat.Coin.Amount),
		cat.AssetID[:], cat.P2PuzzleHash[:],
		cat.LineageProof.ParentParentCoinInfo[:],
		cat.LineageProof.ParentInnerPuzzleHash[:],
		amountToBytes(cat.LineageProof.ParentAmount),
	)
	if err != nil {
		return fmt.Errorf("insert cat coin: %w", err)
	}

	return nil
}

// UnspentCoins lists unspent, unreserved native coins, largest first.
// Big-endian amount blobs make the byte ordering numeric.
func (s *SQLStore) UnspentCoins(
	ctx context.Context) ([]protocol.Coin, error) {

	query := s.rebind(`
		SELECT parent_coin_info, puzzle_hash, amount
		FROM coins
		WHERE spent = 0 AND reserved = 0 AND asset_id IS NULL
		ORDER BY amount DESC`)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unspent coins: %w", err)
	}
	defer rows.Close()

	var coins []protocol.Coin
	for rows.Next() {
		var parent, puzzleHash, amount []byte
		if err := rows.Scan(&parent, &puzzleHash, &amount); err != nil {
			return nil, fmt.Errorf("scan coin: %w", err)
		}

		coin, err := coinFromRow(parent, puzzleHash, amount)
		if err != nil {
			return nil, err
		}

		coins = append(coins, coin)
	}

	return coins, rows.Err()
}

// UnspentCatCoins lists unspent, unreserved coins of one CAT, largest
// first.
func (s *SQLStore) UnspentCatCoins(ctx context.Context,
	assetID protocol.Bytes32) ([]protocol.CatCoin, error) {

	query := s.rebind(`
		SELECT parent_coin_info, puzzle_hash, amount,
			p2_puzzle_hash, lineage_parent_parent,
			lineage_parent_inner, lineage_parent_amount
		FROM coins
		WHERE spent = 0 AND reserved = 0 AND asset_id = ?
		ORDER BY amount DESC`)

	rows, err := s.db.QueryContext(ctx, query, assetID[:])
	if err != nil {
		return nil, fmt.Errorf("unspent cat coins: %w", err)
	}
	defer rows.Close()

	var cats []protocol.CatCoin
	for rows.Next() {
		var parent, puzzleHash, amount, p2, lineageParent,
			lineageInner, lineageAmount []byte

		err := rows.Scan(
			&parent, &puzzleHash, &amount, &p2, &lineageParent,
			&lineageInner, &lineageAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cat coin: %w", err)
		}

		coin, err := coinFromRow(parent, puzzleHash, amount)
		if err != nil {
			return nil, err
		}

		p2Hash, err := bytes32FromRow(p2)
		if err != nil {
			return nil, err
		}

		proof, err := lineageFromRow(
			lineageParent, lineageInner, lineageAmount,
		)
		if err != nil {
			return nil, err
		}

		cats = append(cats, protocol.CatCoin{
			Coin:         coin,
			AssetID:      assetID,
			P2PuzzleHash: p2Hash,
			LineageProof: proof,
		})
	}

	return cats, rows.Err()
}

// ReserveCoins atomically reserves all named coins. If any of them is
// already reserved, already spent, or unknown, no coin is reserved and
// ErrCoinReserved is returned.
func (s *SQLStore) ReserveCoins(ctx context.Context,
	coinIDs []protocol.Bytes32) error {

	if len(coinIDs) == 0 {
		return nil
	}

	query := s.rebind(fmt.Sprintf(`
		UPDATE coins
		SET reserved = 1
		WHERE spent = 0 AND reserved = 0 AND coin_id IN (%s)`,
		inClause(len(coinIDs))))

	return execInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, coinIDArgs(coinIDs)...)
		if err != nil {
			return fmt.Errorf("reserve coins: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reserve coins: %w", err)
		}

		// Returning an error rolls back the partial update, which is
		// what makes the reservation all-or-nothing.
		if affected != int64(len(coinIDs)) {
			return ErrCoinReserved
		}

		return nil
	})
}

// ReleaseCoins clears the reservation on the named coins. Releasing an
// unreserved or unknown coin is a no-op.
func (s *SQLStore) ReleaseCoins(ctx context.Context,
	coinIDs []protocol.Bytes32) error {

	if len(coinIDs) == 0 {
		return nil
	}

	query := s.rebind(fmt.Sprintf(`
		UPDATE coins
		SET reserved = 0
		WHERE coin_id IN (%s)`, inClause(len(coinIDs))))

	_, err := s.db.ExecContext(ctx, query, coinIDArgs(coinIDs)...)
	if err != nil {
		return fmt.Errorf("release coins: %w", err)
	}

	return nil
}

// UpsertNft inserts or replaces an NFT record keyed by launcher id.
func (s *SQLStore) UpsertNft(ctx context.Context,
	record NftRecord) error {

	query := s.rebind(`
		INSERT INTO nfts (
			launcher_id, parent_coin_info, puzzle_hash, amount,
			metadata, metadata_updater_hash, current_owner,
			royalty_puzzle_hash, royalty_ten_thousandths,
			p2_puzzle_hash, lineage_parent_parent,
			lineage_parent_inner, lineage_parent_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (launcher_id) DO UPDATE SET
			parent_coin_info = excluded.parent_coin_info,
			puzzle_hash = excluded.puzzle_hash,
			amount = excluded.amount,
			metadata = excluded.metadata,
			metadata_updater_hash = excluded.metadata_updater_hash,
			current_owner = excluded.current_owner,
			royalty_puzzle_hash = excluded.royalty_puzzle_hash,
			royalty_ten_thousandths =
				excluded.royalty_ten_thousandths,
			p2_puzzle_hash = excluded.p2_puzzle_hash,
			lineage_parent_parent = excluded.lineage_parent_parent,
			lineage_parent_inner = excluded.lineage_parent_inner,
			lineage_parent_amount = excluded.lineage_parent_amount`)

	var owner []byte
	if !record.CurrentOwner.IsZero() {
		owner = record.CurrentOwner[:]
	}

	_, err := s.db.ExecContext(
		ctx, query, record.LauncherID[:],
		record.Coin.ParentCoinInfo[:], record.Coin.PuzzleHash[:],
		amountToBytes(record.Coin.Amount), []byte(record.Metadata),
		record.MetadataUpdaterHash[:], owner,
		record.RoyaltyPuzzleHash[:],
		int64(record.RoyaltyTenThousandths), record.P2PuzzleHash[:],
		record.LineageProof.ParentParentCoinInfo[:],
		record.LineageProof.ParentInnerPuzzleHash[:],
		amountToBytes(record.LineageProof.ParentAmount),
	)
	if err != nil {
		return fmt.Errorf("upsert nft: %w", err)
	}

	return nil
}

// Nft returns the record for a launcher id.
func (s *SQLStore) Nft(ctx context.Context,
	launcherID protocol.Bytes32) (NftRecord, error) {

	query := s.rebind(`
		SELECT parent_coin_info, puzzle_hash, amount, metadata,
			metadata_updater_hash, current_owner,
			royalty_puzzle_hash, royalty_ten_thousandths,
			p2_puzzle_hash, lineage_parent_parent,
			lineage_parent_inner, lineage_parent_amount
		FROM nfts
		WHERE launcher_id = ?`)

	var (
		parent, puzzleHash, amount, metadata, updater, owner,
		royaltyHash, p2, lineageParent, lineageInner,
		lineageAmount []byte

		royaltyRate int64
	)
	err := s.db.QueryRowContext(ctx, query, launcherID[:]).Scan(
		&parent, &puzzleHash, &amount, &metadata, &updater, &owner,
		&royaltyHash, &royaltyRate, &p2, &lineageParent,
		&lineageInner, &lineageAmount,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NftRecord{}, ErrNotFound
	case err != nil:
		return NftRecord{}, fmt.Errorf("nft: %w", err)
	}

	coin, err := coinFromRow(parent, puzzleHash, amount)
	if err != nil {
		return NftRecord{}, err
	}

	updaterHash, err := bytes32FromRow(updater)
	if err != nil {
		return NftRecord{}, err
	}

	var currentOwner protocol.Bytes32
	if len(owner) > 0 {
		currentOwner, err = bytes32FromRow(owner)
		if err != nil {
			return NftRecord{}, err
		}
	}

	royaltyPuzzleHash, err := bytes32FromRow(royaltyHash)
	if err != nil {
		return NftRecord{}, err
	}

	rate, err := int64ToUint16(royaltyRate)
	if err != nil {
		return NftRecord{}, err
	}

	p2Hash, err := bytes32FromRow(p2)
	if err != nil {
		return NftRecord{}, err
	}

	proof, err := lineageFromRow(lineageParent, lineageInner,
		lineageAmount)
	if err != nil {
		return NftRecord{}, err
	}

	return NftRecord{
		Coin:                  coin,
		LauncherID:            launcherID,
		Metadata:              protocol.Program(metadata),
		MetadataUpdaterHash:   updaterHash,
		CurrentOwner:          currentOwner,
		RoyaltyPuzzleHash:     royaltyPuzzleHash,
		RoyaltyTenThousandths: rate,
		P2PuzzleHash:          p2Hash,
		LineageProof:          proof,
	}, nil
}

// coinFromRow converts scanned coin columns into a Coin.
func coinFromRow(parent, puzzleHash, amount []byte) (protocol.Coin, error) {
	parentHash, err := bytes32FromRow(parent)
	if err != nil {
		return protocol.Coin{}, err
	}

	puzzle, err := bytes32FromRow(puzzleHash)
	if err != nil {
		return protocol.Coin{}, err
	}

	value, err := amountFromBytes(amount)
	if err != nil {
		return protocol.Coin{}, err
	}

	return protocol.NewCoin(parentHash, puzzle, value), nil
}

// lineageFromRow converts scanned lineage columns into a LineageProof.
func lineageFromRow(parent, inner,
	amount []byte) (protocol.LineageProof, error) {

	parentHash, err := bytes32FromRow(parent)
	if err != nil {
		return protocol.LineageProof{}, err
	}

	innerHash, err := bytes32FromRow(inner)
	if err != nil {
		return protocol.LineageProof{}, err
	}

	value, err := amountFromBytes(amount)
	if err != nil {
		return protocol.LineageProof{}, err
	}

	return protocol.LineageProof{
		ParentParentCoinInfo:  parentHash,
		ParentInnerPuzzleHash: innerHash,
		ParentAmount:          value,
	}, nil
}

// coinIDArgs converts coin ids into query arguments.
func coinIDArgs(coinIDs []protocol.Bytes32) []any {
	args := make([]any, len(coinIDs))
	for i := range coinIDs {
		args[i] = coinIDs[i][:]
	}

	return args
}

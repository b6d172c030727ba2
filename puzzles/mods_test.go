// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzles

import (
	"encoding/hex"
	"testing"

	"github.com/chiasuite/chiawallet/protocol"
	"github.com/stretchr/testify/require"
)

func hashFromHex(t *testing.T, s string) protocol.Bytes32 {
	t.Helper()

	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	var out protocol.Bytes32
	copy(out[:], raw)

	return out
}

// TestModHashes pins the modules shipped as compiled mainnet artifacts
// to their published chain constants. A failure here means an embedded
// program no longer matches the on-chain module.
func TestModHashes(t *testing.T) {
	t.Parallel()

	require.Equal(t, hashFromHex(t,
		"e9aaa49f45bad5c889b86ee3341550c155cfdd10c3a6757de618d2061"+
			"2fffd52"), P2ModHash)

	require.Equal(t, hashFromHex(t,
		"eff07522495060c066f66f32acc2a77e3a3e737aca8baea4d1a64ea4c"+
			"dc13da9"), LauncherHash)

	require.Equal(t, hashFromHex(t,
		"fe8a4b4e27a2e29a4d3fc7ce9d527adbcaccbab6ada3903ccf3ba9a76"+
			"9d2d78b"), NftMetadataUpdaterHash)
}

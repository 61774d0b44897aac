/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bitstring

import (
	"testing"

	"github.com/multiformats/go-multibase"
	"github.com/stretchr/testify/require"
)

func TestBitString(t *testing.T) {
	t.Run("test error position is invalid", func(t *testing.T) {
		bitString := New(5)

		_, err := bitString.Get(5)
		require.Error(t, err)
		require.Contains(t, err.Error(), "position is invalid")

		err = bitString.Set(-1, true)
		require.Error(t, err)
		require.Contains(t, err.Error(), "position is invalid")
	})

	t.Run("invalid multibase string", func(t *testing.T) {
		_, err := Decode("!!!!wrongvalue", 8)
		require.Error(t, err)
		require.Contains(t, err.Error(), "selected encoding not supported")
	})

	t.Run("unsupported multibase encoding", func(t *testing.T) {
		str, err := multibase.Encode(multibase.Base64pad, []byte("data"))
		require.NoError(t, err)

		_, err = Decode(str, 8)
		require.Error(t, err)
		require.Contains(t, err.Error(), "encoding not supported")
	})

	t.Run("length mismatch", func(t *testing.T) {
		encoded, err := New(50).Encode()
		require.NoError(t, err)

		_, err = Decode(encoded, 200)
		require.Error(t, err)
		require.Contains(t, err.Error(), "does not match length")
	})

	t.Run("test success", func(t *testing.T) {
		bitString := New(50)

		for _, p := range []int{0, 4, 5, 6, 7, 49} {
			require.NoError(t, bitString.Set(p, true))
		}

		bitSet, err := bitString.Get(4)
		require.NoError(t, err)
		require.True(t, bitSet)

		bitSet, err = bitString.Get(1)
		require.NoError(t, err)
		require.False(t, bitSet)

		encodeBits, err := bitString.Encode()
		require.NoError(t, err)

		bitStr, err := Decode(encodeBits, 50)
		require.NoError(t, err)
		require.Equal(t, 50, bitStr.Len())
		require.Equal(t, []int{0, 4, 5, 6, 7, 49}, bitStr.Positions())

		require.NoError(t, bitStr.Set(49, false))
		require.Equal(t, []int{0, 4, 5, 6, 7}, bitStr.Positions())
	})

	t.Run("clone is independent", func(t *testing.T) {
		bitString := New(10)
		require.NoError(t, bitString.Set(3, true))

		clone := bitString.Clone()
		require.NoError(t, clone.Set(8, true))

		require.Equal(t, []int{3}, bitString.Positions())
		require.Equal(t, []int{3, 8}, clone.Positions())
	})
}

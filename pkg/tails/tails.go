/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package tails stores revocation tails data addressed by content hash.
package tails

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// ErrDataNotFound is returned when no tails data exists at a location.
var ErrDataNotFound = errors.New("tails data not found")

// Hash returns the base58 encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)

	return base58.Encode(sum[:])
}

// Verify checks data against hash.
func Verify(data []byte, hash string) error {
	if actual := Hash(data); actual != hash {
		return fmt.Errorf("tails hash mismatch: expected %s, got %s", hash, actual)
	}

	return nil
}

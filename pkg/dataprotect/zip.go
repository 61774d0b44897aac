/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"errors"
	"strings"
)

const (
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

var errEncrypted = errors.New("data is encrypted and no master key is configured")

// NewCompressor returns the compressor of algo. Unknown algorithms leave data uncompressed.
func NewCompressor(algo string) DataCompressor {
	switch strings.ToLower(algo) {
	case CompressionGzip:
		return NewGzip()
	case CompressionZstd:
		return NewZStd()
	default:
		return NewNilZip()
	}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import "context"

// NilDataProtector stores data in clear. It is used when no master key is configured.
type NilDataProtector struct {
}

func NewNilDataProtector() *NilDataProtector {
	return &NilDataProtector{}
}

func (n *NilDataProtector) Encrypt(_ context.Context, msg []byte) (*EncryptedData, error) {
	return &EncryptedData{
		Chunks: []*EncryptedChunk{{Encrypted: msg}},
	}, nil
}

func (n *NilDataProtector) Decrypt(_ context.Context, encryptedData *EncryptedData) ([]byte, error) {
	var final []byte

	for _, c := range encryptedData.Chunks {
		if len(c.EncryptedKey) > 0 {
			return nil, errEncrypted
		}

		final = append(final, c.Encrypted...)
	}

	return NewCompressor(encryptedData.Compression).Decompress(final)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import "context"

// Protector encrypts data at rest.
type Protector interface {
	Encrypt(ctx context.Context, msg []byte) (*EncryptedData, error)
	Decrypt(ctx context.Context, encryptedData *EncryptedData) ([]byte, error)
}

// DataCompressor compresses data before encryption.
type DataCompressor interface {
	Compress(input []byte) ([]byte, error)
	Decompress(input []byte) ([]byte, error)
}

// EncryptedChunk is a chunk sealed with its own data key. EncryptedKey is the data key wrapped by the
// key protector; it is empty for unencrypted data.
type EncryptedChunk struct {
	Encrypted    []byte `json:"encrypted"`
	EncryptedKey []byte `json:"encrypted_key,omitempty"`
}

// EncryptedData is a compressed message split into encrypted chunks.
type EncryptedData struct {
	Chunks      []*EncryptedChunk `json:"chunks"`
	Compression string            `json:"compression,omitempty"`
}

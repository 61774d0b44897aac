/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	keySizeDiv = 8
)

// AES seals data with AES-GCM. The nonce is prepended to the ciphertext.
type AES struct {
	keyLength int
}

// NewAES returns AES generating keys of keyLength bits.
func NewAES(keyLength int) *AES {
	return &AES{
		keyLength: keyLength,
	}
}

// Encrypt seals data with a fresh key and returns the ciphertext and the key.
func (a *AES) Encrypt(data []byte) ([]byte, []byte, error) {
	key, err := a.generateAESKey()
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err := seal(data, key)
	if err != nil {
		return nil, nil, err
	}

	return ciphertext, key, nil
}

func (a *AES) Decrypt(data []byte, key []byte) ([]byte, error) {
	return open(data, key)
}

func (a *AES) generateAESKey() ([]byte, error) {
	key := make([]byte, a.keyLength/keySizeDiv)

	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}

	return key, nil
}

// MasterKey wraps data keys with a long lived AES key.
type MasterKey struct {
	key []byte
}

// NewMasterKey returns a key protector for a 16, 24 or 32 byte AES key.
func NewMasterKey(key []byte) (*MasterKey, error) {
	if _, err := aes.NewCipher(key); err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}

	return &MasterKey{key: key}, nil
}

func (m *MasterKey) Wrap(key []byte) ([]byte, error) {
	return seal(key, m.key)
}

func (m *MasterKey) Unwrap(wrapped []byte) ([]byte, error) {
	return open(wrapped, m.key)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

func seal(data, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

func open(data, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertext, nil)
}

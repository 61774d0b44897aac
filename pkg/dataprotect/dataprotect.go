/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"context"
	"errors"
	"fmt"

	"github.com/gammazero/workerpool"
	"github.com/samber/lo"
)

//go:generate mockgen -source dataprotect.go -destination dataprotect_mocks_test.go -package dataprotect_test

const defaultMaxChunkSize = 64 * 1024

type keyProtector interface {
	Wrap(key []byte) ([]byte, error)
	Unwrap(wrapped []byte) ([]byte, error)
}

type dataEncryptor interface {
	Encrypt(data []byte) ([]byte, []byte, error)
	Decrypt(data []byte, key []byte) ([]byte, error)
}

// Config of the data protector.
type Config struct {
	KeyProtector  keyProtector
	DataEncryptor dataEncryptor
	// Compression is the algorithm applied before encryption: gzip, zstd or none.
	Compression string
	// MaxChunkSize is the size of the chunks encrypted in parallel. Defaults to 64 KiB.
	MaxChunkSize int
	// RoutinesPerRequest bounds the chunks encrypted concurrently for one message.
	RoutinesPerRequest int
}

// DataProtector is an envelope encryption: every chunk is sealed with a fresh data key that is in
// turn wrapped by the key protector.
type DataProtector struct {
	keyProtector       keyProtector
	dataEncryptor      dataEncryptor
	compression        string
	compressor         DataCompressor
	maxChunkSize       int
	routinesPerRequest int
}

func NewDataProtector(config *Config) *DataProtector {
	d := &DataProtector{
		keyProtector:       config.KeyProtector,
		dataEncryptor:      config.DataEncryptor,
		compression:        config.Compression,
		compressor:         NewCompressor(config.Compression),
		maxChunkSize:       config.MaxChunkSize,
		routinesPerRequest: config.RoutinesPerRequest,
	}

	if d.maxChunkSize < 1 {
		d.maxChunkSize = defaultMaxChunkSize
	}

	if d.routinesPerRequest < 1 {
		d.routinesPerRequest = 1
	}

	return d
}

func (d *DataProtector) Encrypt(_ context.Context, msg []byte) (*EncryptedData, error) {
	compressed, err := d.compressor.Compress(msg)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	chunks := lo.Chunk(compressed, d.maxChunkSize)
	final := make([]*EncryptedChunk, len(chunks))
	errs := make([]error, len(chunks))
	pool := workerpool.New(d.routinesPerRequest)

	for i, c := range chunks {
		pool.Submit(func() {
			final[i], errs[i] = d.encryptChunk(c)
		})
	}

	pool.StopWait()

	if err = errors.Join(errs...); err != nil {
		return nil, err
	}

	return &EncryptedData{
		Chunks:      final,
		Compression: d.compression,
	}, nil
}

func (d *DataProtector) Decrypt(_ context.Context, data *EncryptedData) ([]byte, error) {
	decrypted := make([][]byte, len(data.Chunks))
	errs := make([]error, len(data.Chunks))
	pool := workerpool.New(d.routinesPerRequest)

	for i, c := range data.Chunks {
		pool.Submit(func() {
			decrypted[i], errs[i] = d.decryptChunk(c)
		})
	}

	pool.StopWait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	var final []byte
	for _, ch := range decrypted {
		final = append(final, ch...)
	}

	decompressed, err := NewCompressor(data.Compression).Decompress(final)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	return decompressed, nil
}

func (d *DataProtector) encryptChunk(chunk []byte) (*EncryptedChunk, error) {
	encrypted, key, err := d.dataEncryptor.Encrypt(chunk)
	if err != nil {
		return nil, fmt.Errorf("encrypt data: %w", err)
	}

	wrapped, err := d.keyProtector.Wrap(key)
	if err != nil {
		return nil, fmt.Errorf("wrap data key: %w", err)
	}

	return &EncryptedChunk{
		Encrypted:    encrypted,
		EncryptedKey: wrapped,
	}, nil
}

func (d *DataProtector) decryptChunk(chunk *EncryptedChunk) ([]byte, error) {
	key, err := d.keyProtector.Unwrap(chunk.EncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("unwrap data key: %w", err)
	}

	decrypted, err := d.dataEncryptor.Decrypt(chunk.Encrypted, key)
	if err != nil {
		return nil, fmt.Errorf("decrypt data: %w", err)
	}

	return decrypted, nil
}

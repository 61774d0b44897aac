/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type ZStd struct {
}

func NewZStd() *ZStd {
	return &ZStd{}
}

func (z *ZStd) Compress(input []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	defer encoder.Close()

	return encoder.EncodeAll(input, nil), nil
}

func (z *ZStd) Decompress(input []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	defer decoder.Close()

	decompressed, err := decoder.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("decode zstd: %w", err)
	}

	return decompressed, nil
}

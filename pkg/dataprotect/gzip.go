/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

type GZip struct {
}

func NewGzip() *GZip {
	return &GZip{}
}

func (g *GZip) Compress(input []byte) ([]byte, error) {
	var compressedData bytes.Buffer

	w := gzip.NewWriter(&compressedData)

	if _, err := w.Write(input); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return compressedData.Bytes(), nil
}

func (g *GZip) Decompress(input []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = r.Close()
	}()

	return io.ReadAll(r)
}

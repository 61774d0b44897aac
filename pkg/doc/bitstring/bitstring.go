/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bitstring

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/multiformats/go-multibase"
)

const (
	bitsPerByte = 8
	one         = 0x1
	bitOffset   = 7

	encoding = multibase.Base64url
)

// BitString is a fixed length bit set, encoded as a multibase base64url gzip string.
// Bits are set left-to-right within each byte.
type BitString struct {
	bits   []byte
	length int
}

// New returns a bit string of length bits, all unset.
func New(length int) *BitString {
	if length < 1 {
		length = 1
	}

	return &BitString{
		bits:   make([]byte, byteSize(length)),
		length: length,
	}
}

// Decode decodes a bit string of length bits produced by Encode.
func Decode(encodedBits string, length int) (*BitString, error) {
	enc, decodedBits, err := multibase.Decode(encodedBits)
	if err != nil {
		return nil, err
	}

	if enc != encoding {
		return nil, fmt.Errorf("encoding not supported: %d", enc)
	}

	r, err := gzip.NewReader(bytes.NewReader(decodedBits))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = r.Close()
	}()

	bits, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(bits) != byteSize(length) {
		return nil, fmt.Errorf("bit string size %d does not match length %d", len(bits), length)
	}

	return &BitString{bits: bits, length: length}, nil
}

// Len returns the number of bits.
func (b *BitString) Len() int {
	return b.length
}

// Set bit.
func (b *BitString) Set(position int, bitSet bool) error {
	if position < 0 || position >= b.length {
		return fmt.Errorf("position is invalid")
	}

	nByte := position / bitsPerByte
	nBit := bitOffset - (position % bitsPerByte)

	if bitSet {
		b.bits[nByte] |= byte(one << nBit)
	} else {
		b.bits[nByte] &= ^byte(one << nBit)
	}

	return nil
}

// Get bit.
func (b *BitString) Get(position int) (bool, error) {
	if position < 0 || position >= b.length {
		return false, fmt.Errorf("position is invalid")
	}

	nByte := position / bitsPerByte
	nBit := bitOffset - (position % bitsPerByte)

	return (b.bits[nByte] & (one << nBit)) != 0, nil
}

// Positions returns the set positions in ascending order.
func (b *BitString) Positions() []int {
	var positions []int

	for i := 0; i < b.length; i++ {
		if b.bits[i/bitsPerByte]&(one<<(bitOffset-(i%bitsPerByte))) != 0 {
			positions = append(positions, i)
		}
	}

	return positions
}

// Clone returns a deep copy.
func (b *BitString) Clone() *BitString {
	return &BitString{
		bits:   bytes.Clone(b.bits),
		length: b.length,
	}
}

// Encode encodes the bits.
func (b *BitString) Encode() (string, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(b.bits); err != nil {
		return "", err
	}

	if err := w.Close(); err != nil {
		return "", err
	}

	return multibase.Encode(encoding, buf.Bytes())
}

func byteSize(length int) int {
	return 1 + ((length - 1) / bitsPerByte)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cl

import (
	"bytes"
	"fmt"

	math "github.com/IBM/mathlib"
)

// tailsVersion prefixes every tails blob.
var tailsVersion = []byte{0x00, 0x02}

// tails holds t_i = g2^(gamma^i) for i in [1, L]; tails[i-1] is t_i.
type tails []*math.G2

// element returns t_{L+1-idx}, the tail an index contributes to the accumulator.
func (t tails) element(idx uint32) *math.G2 {
	return t[len(t)-int(idx)]
}

func (t tails) encode() []byte {
	var buf bytes.Buffer

	buf.Write(tailsVersion)

	for _, p := range t {
		buf.Write(p.Bytes())
	}

	return buf.Bytes()
}

func (i *Issuer) decodeTails(data []byte, maxCredNum uint32) (tails, error) {
	if len(data) < len(tailsVersion) || !bytes.Equal(data[:len(tailsVersion)], tailsVersion) {
		return nil, fmt.Errorf("unsupported tails version")
	}

	data = data[len(tailsVersion):]
	pointSize := len(i.curve.GenG2.Bytes())

	if len(data) != pointSize*int(maxCredNum) {
		return nil, fmt.Errorf("tails size %d does not match %d elements", len(data), maxCredNum)
	}

	t := make(tails, 0, maxCredNum)

	for off := 0; off < len(data); off += pointSize {
		p, err := i.curve.NewG2FromBytes(data[off : off+pointSize])
		if err != nil {
			return nil, fmt.Errorf("decode tail %d: %w", len(t)+1, err)
		}

		t = append(t, p)
	}

	return t, nil
}

// generateTails returns the tails for gamma and g2^(gamma^(L+1)), the accumulator public key.
func (i *Issuer) generateTails(gamma *math.Zr, maxCredNum uint32) (tails, *math.G2) {
	g2 := i.curve.GenG2
	t := make(tails, 0, maxCredNum)
	pow := gamma.Copy()

	for n := uint32(0); n < maxCredNum; n++ {
		t = append(t, g2.Mul(pow))
		pow = i.curve.ModMul(pow, gamma, i.curve.GroupOrder)
	}

	return t, g2.Mul(pow)
}

// accumulatorKey recomputes g2^(gamma^(L+1)) without building the tails.
func (i *Issuer) accumulatorKey(gamma *math.Zr, maxCredNum uint32) *math.G2 {
	pow := gamma.Copy()

	for n := uint32(0); n < maxCredNum; n++ {
		pow = i.curve.ModMul(pow, gamma, i.curve.GroupOrder)
	}

	return i.curve.GenG2.Mul(pow)
}

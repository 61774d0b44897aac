/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cl implements the anoncreds issuer capability over the BN254 pairing group:
// credential definition key generation and a revocation accumulator backed by tails data.
package cl

import (
	"encoding/hex"
	"fmt"

	math "github.com/IBM/mathlib"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
)

var logger = log.New("cl-issuer")

// Issuer implements anoncreds.Issuer.
type Issuer struct {
	curve *math.Curve
}

var _ anoncreds.Issuer = (*Issuer)(nil)

// NewIssuer returns new Issuer.
func NewIssuer() *Issuer {
	return &Issuer{
		curve: math.Curves[math.BN254],
	}
}

func (i *Issuer) randomZr() (*math.Zr, error) {
	rng, err := i.curve.Rand()
	if err != nil {
		return nil, fmt.Errorf("init random source: %w", err)
	}

	return i.curve.NewRandomZr(rng), nil
}

func (i *Issuer) decodeZr(s string) (*math.Zr, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode scalar: %w", err)
	}

	if len(b) == 0 {
		return nil, fmt.Errorf("empty scalar")
	}

	return i.curve.NewZrFromBytes(b), nil
}

func (i *Issuer) decodeG2(s string) (*math.G2, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode point: %w", err)
	}

	p, err := i.curve.NewG2FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("decode point: %w", err)
	}

	return p, nil
}

func encodeG1(p *math.G1) string {
	return hex.EncodeToString(p.Bytes())
}

func encodeG2(p *math.G2) string {
	return hex.EncodeToString(p.Bytes())
}

func encodeZr(z *math.Zr) string {
	return hex.EncodeToString(z.Bytes())
}

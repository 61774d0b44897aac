/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/trustbloc/revocreg/pkg/txnerr"
)

const (
	// SeedSize is the only supported non-empty seed length.
	SeedSize = ed25519.SeedSize

	// MethodSov is the DID method of identities written to the ledger.
	MethodSov = "sov"

	didPrefix        = "did:"
	unqualifiedBytes = 16
	seedCharset      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// PrivateKey is the Ed25519 signing key of an identity.
type PrivateKey ed25519.PrivateKey

// Sign signs msg.
func (k PrivateKey) Sign(msg []byte) ([]byte, error) {
	if len(k) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key size %d", len(k))
	}

	return ed25519.Sign(ed25519.PrivateKey(k), msg), nil
}

// Identity is an actor's ledger identity.
type Identity struct {
	// DID is the unqualified identifier: base58 of the first 16 bytes of the verification key.
	DID string
	// VerKey is the base58 encoded verification key.
	VerKey string
	// PrivateKey is owned exclusively by the actor that created the identity.
	PrivateKey PrivateKey
}

// Generate derives an identity from a 32 byte seed, or creates a random identity when seed is empty.
func Generate(seed []byte) (*Identity, error) {
	switch len(seed) {
	case 0:
		seed = make([]byte, SeedSize)

		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generate random seed: %w", err)
		}
	case SeedSize:
	default:
		return nil, txnerr.NewError(txnerr.InvalidSeedLength, txnerr.IdentityComponent,
			fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))).
			WithOperation("Generate")
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	verKey, ok := privateKey.Public().(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("unexpected public key type")
	}

	return &Identity{
		DID:        base58.Encode(verKey[:unqualifiedBytes]),
		VerKey:     base58.Encode(verKey),
		PrivateKey: PrivateKey(privateKey),
	}, nil
}

// GenerateSeed returns a random alphanumeric seed of SeedSize characters.
func GenerateSeed() (string, error) {
	var sb strings.Builder

	charsetLen := big.NewInt(int64(len(seedCharset)))

	for i := 0; i < SeedSize; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("generate seed: %w", err)
		}

		sb.WriteByte(seedCharset[n.Int64()])
	}

	return sb.String(), nil
}

// Qualify returns the fully qualified form of the identity's DID for the given method.
func (i *Identity) Qualify(method string) string {
	return Qualify(i.DID, method)
}

// Qualify returns did:<method>:<id>. Already qualified identifiers are returned as is.
func Qualify(id, method string) string {
	if strings.HasPrefix(id, didPrefix) {
		return id
	}

	return didPrefix + method + ":" + id
}

// Unqualify strips the did:<method>: prefix, if any.
func Unqualify(id string) string {
	if !strings.HasPrefix(id, didPrefix) {
		return id
	}

	parts := strings.SplitN(id, ":", 3) //nolint:gomnd
	if len(parts) < 3 {                 //nolint:gomnd
		return id
	}

	return parts[2]
}

// Method returns the method of a qualified DID, or empty string for an unqualified one.
func Method(id string) string {
	if !strings.HasPrefix(id, didPrefix) {
		return ""
	}

	parts := strings.SplitN(id, ":", 3) //nolint:gomnd
	if len(parts) < 3 {                 //nolint:gomnd
		return ""
	}

	return parts[1]
}

// DecodeVerKey decodes a base58 verification key.
func DecodeVerKey(verKey string) (ed25519.PublicKey, error) {
	b := base58.Decode(verKey)
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid verkey size %d", len(b))
	}

	return b, nil
}

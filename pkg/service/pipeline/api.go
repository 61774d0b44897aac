/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"time"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/did"
	"github.com/trustbloc/revocreg/pkg/service/submitter"
)

// State is a step of the issuance pipeline.
type State int16

const (
	StateStart                = State(0)
	StateIdentityReady        = State(1)
	StateSchemaPublished      = State(2)
	StateCredDefPublished     = State(3)
	StateRegistryDefPublished = State(4)
	StateRegistryInitialized  = State(5)
	StateRevocationApplied    = State(6)
	StateDeltaQueried         = State(7)
	StateDone                 = State(8)
	StateFailed               = State(9)
)

var stateNames = map[State]string{ //nolint:gochecknoglobals
	StateStart:                "Start",
	StateIdentityReady:        "IdentityReady",
	StateSchemaPublished:      "SchemaPublished",
	StateCredDefPublished:     "CredDefPublished",
	StateRegistryDefPublished: "RegistryDefPublished",
	StateRegistryInitialized:  "RegistryInitialized",
	StateRevocationApplied:    "RevocationApplied",
	StateDeltaQueried:         "DeltaQueried",
	StateDone:                 "Done",
	StateFailed:               "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "Unknown"
}

// Params of a pipeline run.
type Params struct {
	// Root signs the NYM registering Issuer as an endorser. When nil, Issuer must already be on the ledger.
	Root *did.Identity
	// Issuer signs the schema, credential definition and registry transactions. A fresh identity is
	// generated when nil.
	Issuer *did.Identity

	SchemaName    string
	SchemaVersion string
	Attributes    []string

	CredDefTag string
	RevRegTag  string
	Capacity   uint32

	// Revocations are the index batches revoked one registry entry at a time, in order.
	Revocations [][]uint32
}

// Result of a pipeline run. On failure it holds everything published before the failing step.
type Result struct {
	// RunID correlates the log entries of one run.
	RunID     string
	State     State
	Issuer    *did.Identity
	IssuerDID string
	Schema    *anoncreds.SchemaV1
	CredDef   *anoncreds.CredentialDefinitionV1
	Registry  *Registry
	// Revoked is the revoked index set reported by the ledger delta.
	Revoked []uint32
}

// Registry is a published revocation registry and the material its controller needs to update it.
type Registry struct {
	IssuerDID  string
	Signer     submitter.Signer
	CredDef    *anoncreds.CredentialDefinitionV1
	Definition *anoncreds.RevocationRegistryDefinitionV1
	Private    *anoncreds.RevocationRegistryDefinitionPrivate
	// State is the registry state the ledger is known to hold.
	State *anoncreds.RevocationRegistry
	// Pending is the state of an entry submitted with an unknown outcome. Reconcile resolves it.
	Pending *anoncreds.RevocationRegistry
}

// RegistryState is the persisted accumulator state of a registry.
type RegistryState struct {
	RevRegDefID string
	Registry    *anoncreds.RevocationRegistry
	Private     *anoncreds.RevocationRegistryDefinitionPrivate
	UpdatedAt   time.Time
}

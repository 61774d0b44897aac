/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"sort"

	"github.com/samber/lo"
)

// Version1 is the "ver" value of every entity variant currently supported.
const Version1 = "1.0"

// MaxAttributes is the maximum number of attributes the ledger accepts in a schema.
const MaxAttributes = 125

// MaxRegistryCapacity bounds the number of indices of a revocation registry. Tails generation holds
// one group element per index in memory.
const MaxRegistryCapacity = 32768

// SignatureType is the credential signature scheme.
type SignatureType string

// SignatureTypeCL is the Camenisch-Lysyanskaya signature scheme.
const SignatureTypeCL SignatureType = "CL"

// RegistryType is the revocation registry type.
type RegistryType string

// RegistryTypeCLAccum is the CL accumulator registry type.
const RegistryTypeCLAccum RegistryType = "CL_ACCUM"

// IssuanceType defines which indices are valid when a registry is created.
type IssuanceType string

const (
	// IssuanceByDefault treats every index as issued from creation; revocation removes it.
	IssuanceByDefault IssuanceType = "ISSUANCE_BY_DEFAULT"
	// IssuanceOnDemand treats every index as not issued until it is added explicitly.
	IssuanceOnDemand IssuanceType = "ISSUANCE_ON_DEMAND"
)

// AttributeNames is a set of schema attribute names, kept sorted and free of duplicates.
type AttributeNames []string

// NewAttributeNames builds the attribute set from names in any order.
func NewAttributeNames(names ...string) AttributeNames {
	set := lo.Uniq(lo.Filter(names, func(name string, _ int) bool {
		return name != ""
	}))

	sort.Strings(set)

	return set
}

// Contains reports whether name is in the set.
func (a AttributeNames) Contains(name string) bool {
	return lo.Contains(a, name)
}

// IndexSet materializes indices as a sorted, duplicate-free set.
func IndexSet(indices []uint32) []uint32 {
	set := lo.Uniq(indices)

	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })

	return set
}

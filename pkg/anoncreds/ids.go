/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"fmt"
	"strings"
)

const (
	schemaMarker  = "2"
	credDefMarker = "3"
	revRegMarker  = "4"

	schemaPrefix  = "schema"
	credDefPrefix = "creddef"
	revRegPrefix  = "revreg"

	didPrefix = "did:"
)

// SchemaID derives the schema identifier. A qualified issuer DID yields a qualified identifier.
func SchemaID(issuerDID, name, version string) string {
	return qualifiedID(schemaPrefix, issuerDID, schemaMarker, name, version)
}

// CredentialDefinitionID derives the credential definition identifier.
func CredentialDefinitionID(issuerDID string, schemaSeqNo uint32, sigType SignatureType, tag string) string {
	return qualifiedID(credDefPrefix, issuerDID, credDefMarker, string(sigType), fmt.Sprint(schemaSeqNo), tag)
}

// RevocationRegistryID derives the revocation registry definition identifier.
func RevocationRegistryID(issuerDID, credDefID string, regType RegistryType, tag string) string {
	return qualifiedID(revRegPrefix, issuerDID, revRegMarker, credDefID, string(regType), tag)
}

// UnqualifyID returns the legacy form of a qualified entity identifier, as the ledger stores it.
func UnqualifyID(id string) string {
	for _, prefix := range []string{schemaPrefix, credDefPrefix, revRegPrefix} {
		if !strings.HasPrefix(id, prefix+":") {
			continue
		}

		parts := strings.SplitN(id, ":", 3) //nolint:gomnd
		if len(parts) < 3 {                 //nolint:gomnd
			return id
		}

		method := parts[1]

		unqualified := strings.ReplaceAll(parts[2], credDefPrefix+":"+method+":", "")

		return strings.ReplaceAll(unqualified, didPrefix+method+":", "")
	}

	return id
}

// CredDefQualifierPrefix returns the prefix a qualified credential definition reference starts with.
func CredDefQualifierPrefix(method string) string {
	return credDefPrefix + ":" + method + ":" + didPrefix + method + ":"
}

func qualifiedID(prefix, issuerDID, marker string, parts ...string) string {
	id := strings.Join(append([]string{issuerDID, marker}, parts...), ":")

	if !strings.HasPrefix(issuerDID, didPrefix) {
		return id
	}

	method := strings.SplitN(strings.TrimPrefix(issuerDID, didPrefix), ":", 2)[0] //nolint:gomnd

	return prefix + ":" + method + ":" + id
}

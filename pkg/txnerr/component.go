/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txnerr

type Component string

const (
	IdentityComponent       Component = "identity-generator"
	SchemaBuilderComponent  Component = "schema-builder"
	CredDefBuilderComponent Component = "cred-def-builder"
	RevRegBuilderComponent  Component = "rev-reg-builder"
	RevRegUpdaterComponent  Component = "rev-reg-entry-updater"
	DeltaQueryComponent     Component = "delta-query-builder"
	SubmitterComponent      Component = "transaction-submitter"
	PipelineComponent       Component = "pipeline"
	AccumulatorComponent    Component = "cl-accumulator"
	TailsStoreComponent     Component = "tails-store"
	RegistryStateComponent  Component = "registry-state-store"
	LocalLedgerComponent    Component = "local-ledger"
)

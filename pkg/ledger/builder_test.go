/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
)

func operationJSON(t *testing.T, req *PreparedRequest) string {
	t.Helper()

	b, err := json.Marshal(req.Operation())
	require.NoError(t, err)

	return string(b)
}

func TestRequestBuilder(t *testing.T) {
	b := NewRequestBuilder(WithClock(fixedClock()))

	t.Run("nym", func(t *testing.T) {
		req, err := b.BuildNymRequest("did:sov:"+trusteeDID, "did:sov:Endorser11111111111111", "verkey", "", RoleEndorser)
		require.NoError(t, err)

		assert.Equal(t, NymTxn, req.TxnType)
		assert.Equal(t, trusteeDID, req.Identifier())
		assert.JSONEq(t, `{"type":"1","dest":"Endorser11111111111111","verkey":"verkey","role":"101"}`,
			operationJSON(t, req))

		_, err = b.BuildNymRequest(trusteeDID, "", "", "", "")
		require.Error(t, err)
	})

	t.Run("get nym without submitter", func(t *testing.T) {
		req, err := b.BuildGetNymRequest("", "did:sov:"+trusteeDID)
		require.NoError(t, err)

		assert.Equal(t, DefaultSubmitterDID, req.Identifier())
		assert.JSONEq(t, `{"type":"105","dest":"`+trusteeDID+`"}`, operationJSON(t, req))
	})

	t.Run("cred def", func(t *testing.T) {
		req, err := b.BuildCredDefRequest(trusteeDID, &anoncreds.CredentialDefinitionV1{
			ID:       "creddef:sov:did:sov:" + trusteeDID + ":3:CL:42:testcred",
			SchemaID: "42",
			Type:     anoncreds.SignatureTypeCL,
			Tag:      "testcred",
			Value: anoncreds.CredentialDefinitionData{
				Primary: anoncreds.CredentialPrimaryPublicKey{S: "s", R: map[string]string{"name": "r"}, RCtxt: "c", Z: "z"},
			},
		})
		require.NoError(t, err)

		assert.JSONEq(t, `{"type":"102","ref":42,"signature_type":"CL","tag":"testcred",
			"data":{"primary":{"s":"s","r":{"name":"r"},"rctxt":"c","z":"z"}}}`, operationJSON(t, req))

		_, err = b.BuildCredDefRequest(trusteeDID, &anoncreds.CredentialDefinitionV1{SchemaID: "schema"})
		require.ErrorContains(t, err, "is not a sequence number")
	})

	t.Run("revocation registry definition keeps the cred def reference", func(t *testing.T) {
		req, err := b.BuildRevocRegDefRequest(trusteeDID, &anoncreds.RevocationRegistryDefinitionV1{
			ID:           "revreg:sov:did:sov:" + trusteeDID + ":4:creddef:sov:did:sov:" + trusteeDID + ":3:CL:42:testcred:CL_ACCUM:1.0",
			RevocDefType: anoncreds.RegistryTypeCLAccum,
			Tag:          "1.0",
			CredDefID:    "creddef:sov:did:sov:" + trusteeDID + ":3:CL:42:testcred",
		})
		require.NoError(t, err)

		op := req.Operation()
		assert.Equal(t, trusteeDID+":4:"+trusteeDID+":3:CL:42:testcred:CL_ACCUM:1.0", op["id"])
		assert.Equal(t, "creddef:sov:did:sov:"+trusteeDID+":3:CL:42:testcred", op["credDefId"])
	})

	t.Run("revocation registry entry", func(t *testing.T) {
		req, err := b.BuildRevocRegEntryRequest(trusteeDID, trusteeDID+":4:x:CL_ACCUM:1.0", anoncreds.RegistryTypeCLAccum,
			&anoncreds.RevocationRegistryDelta{PrevAccum: "a", Accum: "b", Revoked: []uint32{8}})
		require.NoError(t, err)

		assert.JSONEq(t, `{"type":"114","revocRegDefId":"`+trusteeDID+`:4:x:CL_ACCUM:1.0","revocDefType":"CL_ACCUM",
			"value":{"prevAccum":"a","accum":"b","revoked":[8]}}`, operationJSON(t, req))

		_, err = b.BuildRevocRegEntryRequest(trusteeDID, "id", anoncreds.RegistryTypeCLAccum, nil)
		require.Error(t, err)
	})

	t.Run("delta query defaults to now", func(t *testing.T) {
		req, err := b.BuildGetRevocRegDeltaRequest("", "id", nil, nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"117","revocRegDefId":"id","to":0}`, operationJSON(t, req))

		from := int64(5)
		to := time.Unix(100, 0)

		req, err = b.BuildGetRevocRegDeltaRequest("", "id", &from, &to)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"117","revocRegDefId":"id","from":5,"to":100}`, operationJSON(t, req))
	})

	t.Run("flags", func(t *testing.T) {
		_, err := b.BuildFlagRequest(trusteeDID, "", "x")
		require.Error(t, err)

		_, err = b.BuildGetFlagRequest(trusteeDID, "")
		require.Error(t, err)

		req, err := b.BuildGetFlagRequest(trusteeDID, "name")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"131","name":"name"}`, operationJSON(t, req))
	})
}

func TestRequestBuilder_ReqIDIsIncreasing(t *testing.T) {
	b := NewRequestBuilder(WithClock(fixedClock()))

	first, err := b.BuildGetFlagRequest("", "a")
	require.NoError(t, err)

	second, err := b.BuildGetFlagRequest("", "a")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), first.ReqID)
	assert.Equal(t, int64(1001), second.ReqID)
}

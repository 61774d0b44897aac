/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package localledger_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/did"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/pool"
	"github.com/trustbloc/revocreg/pkg/pool/localledger"
)

const trusteeSeed = "000000000000000000000000Trustee1"

type fixture struct {
	t       *testing.T
	ledger  *localledger.Ledger
	builder *ledger.RequestBuilder
	trustee *did.Identity
}

func newFixture(t *testing.T, opts ...localledger.Opt) *fixture {
	t.Helper()

	trustee, err := did.Generate([]byte(trusteeSeed))
	require.NoError(t, err)

	l, err := localledger.Open("", append([]localledger.Opt{
		localledger.WithTrustee(trustee.DID, trustee.VerKey),
	}, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, l.Close())
	})

	return &fixture{t: t, ledger: l, builder: ledger.NewRequestBuilder(), trustee: trustee}
}

func (f *fixture) submit(req *ledger.PreparedRequest, signer *did.Identity) *ledger.Reply {
	f.t.Helper()

	if signer != nil {
		input, err := req.SignatureInput()
		require.NoError(f.t, err)

		sig, err := signer.PrivateKey.Sign([]byte(input))
		require.NoError(f.t, err)
		require.NoError(f.t, req.SetSignature(sig))
	}

	res, err := f.ledger.Submit(context.Background(), req)
	require.NoError(f.t, err)
	require.False(f.t, res.IsFailed())

	reply, err := ledger.ParseReply(res.Reply)
	require.NoError(f.t, err)

	return reply
}

func (f *fixture) requireAccepted(reply *ledger.Reply) uint32 {
	f.t.Helper()

	require.True(f.t, reply.Accepted(), reply.String())

	seqNo, err := reply.SeqNo()
	require.NoError(f.t, err)

	return seqNo
}

func (f *fixture) endorser() *did.Identity {
	f.t.Helper()

	seed, err := did.GenerateSeed()
	require.NoError(f.t, err)

	endorser, err := did.Generate([]byte(seed))
	require.NoError(f.t, err)

	req, err := f.builder.BuildNymRequest(f.trustee.DID, endorser.DID, endorser.VerKey, "", ledger.RoleEndorser)
	require.NoError(f.t, err)

	f.requireAccepted(f.submit(req, f.trustee))

	return endorser
}

func TestLedger_NymAndFlags(t *testing.T) {
	f := newFixture(t)

	t.Run("get trustee nym", func(t *testing.T) {
		req, err := f.builder.BuildGetNymRequest("", f.trustee.Qualify(did.MethodSov))
		require.NoError(t, err)

		reply := f.submit(req, nil)
		require.True(t, reply.Accepted())

		data := gjson.Parse(gjson.Parse(reply.Data()).String())
		assert.Equal(t, f.trustee.VerKey, data.Get("verkey").String())
		assert.Equal(t, "0", data.Get("role").String())
	})

	t.Run("unknown nym", func(t *testing.T) {
		req, err := f.builder.BuildGetNymRequest("", "did:sov:UnknownDid111111111")
		require.NoError(t, err)

		reply := f.submit(req, nil)
		require.True(t, reply.Accepted())
		assert.Equal(t, "null", reply.Data())
	})

	t.Run("flag", func(t *testing.T) {
		req, err := f.builder.BuildGetFlagRequest("", "REV_STRATEGY_USE_COMPAT_ORDERING")
		require.NoError(t, err)
		assert.Equal(t, "null", f.submit(req, nil).Data())

		req, err = f.builder.BuildFlagRequest(f.trustee.DID, "REV_STRATEGY_USE_COMPAT_ORDERING", "False")
		require.NoError(t, err)
		f.requireAccepted(f.submit(req, f.trustee))

		req, err = f.builder.BuildGetFlagRequest("", "REV_STRATEGY_USE_COMPAT_ORDERING")
		require.NoError(t, err)
		assert.Equal(t, "False", gjson.Get(f.submit(req, nil).Data(), "value").String())
	})

	t.Run("flag requires a trustee", func(t *testing.T) {
		endorser := f.endorser()

		req, err := f.builder.BuildFlagRequest(endorser.DID, "flag", "True")
		require.NoError(t, err)

		reply := f.submit(req, endorser)
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "not authorized")
	})

	t.Run("endorser cannot assign roles", func(t *testing.T) {
		endorser := f.endorser()

		other, err := did.Generate(nil)
		require.NoError(t, err)

		req, err := f.builder.BuildNymRequest(endorser.DID, other.DID, other.VerKey, "", ledger.RoleEndorser)
		require.NoError(t, err)

		reply := f.submit(req, endorser)
		assert.Equal(t, ledger.OpReject, reply.Op())
	})
}

func TestLedger_Signatures(t *testing.T) {
	f := newFixture(t)

	t.Run("missing signature", func(t *testing.T) {
		req, err := f.builder.BuildFlagRequest(f.trustee.DID, "flag", "True")
		require.NoError(t, err)

		reply := f.submit(req, nil)
		assert.Equal(t, ledger.OpReqNack, reply.Op())
		assert.Equal(t, "missing signature", reply.Reason())
	})

	t.Run("wrong signer", func(t *testing.T) {
		other, err := did.Generate(nil)
		require.NoError(t, err)

		req, err := f.builder.BuildFlagRequest(f.trustee.DID, "flag", "True")
		require.NoError(t, err)

		reply := f.submit(req, other)
		assert.Equal(t, ledger.OpReqNack, reply.Op())
		assert.Contains(t, reply.Reason(), "invalid signature")
	})

	t.Run("unknown identifier", func(t *testing.T) {
		other, err := did.Generate(nil)
		require.NoError(t, err)

		req, err := f.builder.BuildFlagRequest(other.DID, "flag", "True")
		require.NoError(t, err)

		reply := f.submit(req, other)
		assert.Equal(t, ledger.OpReqNack, reply.Op())
		assert.Contains(t, reply.Reason(), "unknown identifier")
	})

	t.Run("resubmission returns the same reply", func(t *testing.T) {
		req, err := f.builder.BuildFlagRequest(f.trustee.DID, "flag", "True")
		require.NoError(t, err)

		first := f.submit(req, f.trustee)
		seqNo := f.requireAccepted(first)

		res, err := f.ledger.Submit(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first.String(), string(res.Reply))

		second, err := ledger.ParseReply(res.Reply)
		require.NoError(t, err)
		assert.Equal(t, seqNo, f.requireAccepted(second))
	})
}

func TestLedger_RevocationRegistry(t *testing.T) {
	now := time.Unix(1700000000, 0)

	f := newFixture(t, localledger.WithClock(func() time.Time { return now }))
	endorser := f.endorser()
	issuer := endorser.Qualify(did.MethodSov)

	schema := &anoncreds.SchemaV1{
		ID:        anoncreds.SchemaID(issuer, "TestSchema", "0.1.0"),
		Name:      "TestSchema",
		Version:   "0.1.0",
		AttrNames: anoncreds.NewAttributeNames("name", "email"),
	}

	req, err := f.builder.BuildSchemaRequest(issuer, schema)
	require.NoError(t, err)

	schemaSeqNo := f.requireAccepted(f.submit(req, endorser))

	t.Run("duplicate schema", func(t *testing.T) {
		dup, err := f.builder.BuildSchemaRequest(issuer, schema)
		require.NoError(t, err)

		reply := f.submit(dup, endorser)
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "already exists")
	})

	t.Run("cred def for unknown schema", func(t *testing.T) {
		bad, err := f.builder.BuildCredDefRequest(issuer, &anoncreds.CredentialDefinitionV1{
			SchemaID: "9999", Type: anoncreds.SignatureTypeCL, Tag: "testcred",
		})
		require.NoError(t, err)

		reply := f.submit(bad, endorser)
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "is not found")
	})

	credDef := &anoncreds.CredentialDefinitionV1{
		ID:       anoncreds.CredentialDefinitionID(issuer, schemaSeqNo, anoncreds.SignatureTypeCL, "testcred"),
		SchemaID: strconv.FormatUint(uint64(schemaSeqNo), 10),
		Type:     anoncreds.SignatureTypeCL,
		Tag:      "testcred",
	}

	req, err = f.builder.BuildCredDefRequest(issuer, credDef)
	require.NoError(t, err)
	f.requireAccepted(f.submit(req, endorser))

	def := &anoncreds.RevocationRegistryDefinitionV1{
		ID:           anoncreds.RevocationRegistryID(issuer, credDef.ID, anoncreds.RegistryTypeCLAccum, "1.0"),
		RevocDefType: anoncreds.RegistryTypeCLAccum,
		Tag:          "1.0",
		CredDefID:    credDef.ID,
		Value: anoncreds.RevocationRegistryDefinitionValue{
			IssuanceType: anoncreds.IssuanceByDefault,
			MaxCredNum:   10,
		},
	}

	t.Run("qualified cred def reference is rejected", func(t *testing.T) {
		bad, err := f.builder.BuildRevocRegDefRequest(issuer, def)
		require.NoError(t, err)

		reply := f.submit(bad, endorser)
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "qualified credential definition id")
	})

	legacy := *def
	legacy.CredDefID = anoncreds.UnqualifyID(credDef.ID)

	req, err = f.builder.BuildRevocRegDefRequest(issuer, &legacy)
	require.NoError(t, err)
	f.requireAccepted(f.submit(req, endorser))

	entry := func(prevAccum, accum string, issued, revoked []uint32) *ledger.Reply {
		r, err := f.builder.BuildRevocRegEntryRequest(issuer, def.ID, anoncreds.RegistryTypeCLAccum,
			&anoncreds.RevocationRegistryDelta{PrevAccum: prevAccum, Accum: accum, Issued: issued, Revoked: revoked})
		require.NoError(t, err)

		return f.submit(r, endorser)
	}

	t.Run("update before initialization", func(t *testing.T) {
		reply := entry("a0", "a1", nil, []uint32{1})
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "is not initialized")
	})

	f.requireAccepted(entry("", "a0", []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, nil))
	f.requireAccepted(entry("a0", "a1", nil, []uint32{1, 5, 6, 7}))

	t.Run("stale prevAccum", func(t *testing.T) {
		reply := entry("a0", "a2", nil, []uint32{8})
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "does not match the current accumulator")
	})

	t.Run("index out of range", func(t *testing.T) {
		reply := entry("a1", "a2", nil, []uint32{11})
		assert.Equal(t, ledger.OpReject, reply.Op())
	})

	t.Run("foreign owner", func(t *testing.T) {
		r, err := f.builder.BuildRevocRegEntryRequest(f.trustee.DID, def.ID, anoncreds.RegistryTypeCLAccum,
			&anoncreds.RevocationRegistryDelta{PrevAccum: "a1", Accum: "a2", Revoked: []uint32{8}})
		require.NoError(t, err)

		reply := f.submit(r, f.trustee)
		assert.Equal(t, ledger.OpReject, reply.Op())
		assert.Contains(t, reply.Reason(), "is not the owner")
	})

	f.requireAccepted(entry("a1", "a2", nil, []uint32{8}))

	delta := func(from *int64) *ledger.Reply {
		to := now

		r, err := f.builder.BuildGetRevocRegDeltaRequest("", def.ID, from, &to)
		require.NoError(t, err)

		return f.submit(r, nil)
	}

	t.Run("delta", func(t *testing.T) {
		reply := delta(nil)

		revoked, err := reply.DeltaRevoked()
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 5, 6, 7, 8}, revoked)

		issued, err := reply.DeltaIssued()
		require.NoError(t, err)
		assert.Equal(t, []uint32{2, 3, 4, 9, 10}, issued)

		assert.Equal(t, "a2", reply.DeltaAccum())
	})

	t.Run("delta from a later time is empty", func(t *testing.T) {
		from := now.Unix()

		revoked, err := delta(&from).DeltaRevoked()
		require.NoError(t, err)
		assert.Empty(t, revoked)
	})

	t.Run("delta before the registry existed", func(t *testing.T) {
		to := now.Add(-time.Hour)

		r, err := f.builder.BuildGetRevocRegDeltaRequest("", def.ID, nil, &to)
		require.NoError(t, err)

		_, err = f.submit(r, nil).DeltaRevoked()
		require.Error(t, err)
	})

	t.Run("unknown registry", func(t *testing.T) {
		r, err := f.builder.BuildGetRevocRegDeltaRequest("", "unknown", nil, nil)
		require.NoError(t, err)

		reply := f.submit(r, nil)
		require.True(t, reply.Accepted())
		assert.Equal(t, "null", reply.Data())
	})
}

func TestLedger_Persistence(t *testing.T) {
	trustee, err := did.Generate([]byte(trusteeSeed))
	require.NoError(t, err)

	path := t.TempDir()
	builder := ledger.NewRequestBuilder()

	l, err := localledger.Open(path, localledger.WithTrustee(trustee.DID, trustee.VerKey))
	require.NoError(t, err)

	req, err := builder.BuildFlagRequest(trustee.DID, "persisted", "yes")
	require.NoError(t, err)

	input, err := req.SignatureInput()
	require.NoError(t, err)

	sig, err := trustee.PrivateKey.Sign([]byte(input))
	require.NoError(t, err)
	require.NoError(t, req.SetSignature(sig))

	_, err = l.Submit(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.Submit(context.Background(), req)
	require.ErrorIs(t, err, pool.ErrPoolClosed)

	_, err = l.Refresh(context.Background())
	require.ErrorIs(t, err, pool.ErrPoolClosed)

	l, err = localledger.Open(path, localledger.WithTrustee(trustee.DID, trustee.VerKey))
	require.NoError(t, err)

	defer func() {
		require.NoError(t, l.Close())
	}()

	txns, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txns)

	get, err := builder.BuildGetFlagRequest("", "persisted")
	require.NoError(t, err)

	res, err := l.Submit(context.Background(), get)
	require.NoError(t, err)
	assert.Equal(t, "yes", gjson.GetBytes(res.Reply, "result.data.value").String())
	assert.Equal(t, int64(2), gjson.GetBytes(res.Reply, "result.data.seqNo").Int())
}

func TestLedger_CanceledContext(t *testing.T) {
	f := newFixture(t)

	req, err := f.builder.BuildGetFlagRequest("", "x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.ledger.Submit(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
}

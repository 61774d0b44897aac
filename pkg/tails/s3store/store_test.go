/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/revocreg/pkg/tails"
)

const (
	bucket = "tails-bucket"
	prefix = "/registries/"
)

type mockS3Uploader struct {
	t      *testing.T
	m      map[string][]byte
	putErr error
	getErr error
}

func (m *mockS3Uploader) PutObject(
	_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}

	assert.Equal(m.t, contentType, *input.ContentType)
	assert.Equal(m.t, bucket, *input.Bucket)

	b, err := io.ReadAll(input.Body)
	assert.NoError(m.t, err)

	m.m[*input.Key] = b

	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Uploader) GetObject(
	_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	assert.Equal(m.t, bucket, *input.Bucket)

	data, ok := m.m[*input.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestStore(t *testing.T) {
	uploader := &mockS3Uploader{t: t, m: map[string][]byte{}}
	store := NewStore(uploader, bucket, prefix)

	data := []byte{0x00, 0x02, 0xaa, 0xbb}

	location, hash, err := store.Write(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, tails.Hash(data), hash)
	require.Equal(t, "s3://tails-bucket/registries/"+hash, location)
	require.Contains(t, uploader.m, "registries/"+hash)

	t.Run("read back", func(t *testing.T) {
		read, readErr := store.Read(context.Background(), location, hash)
		require.NoError(t, readErr)
		require.Equal(t, data, read)
	})

	t.Run("hash mismatch", func(t *testing.T) {
		_, readErr := store.Read(context.Background(), location, "other")
		require.ErrorContains(t, readErr, "tails hash mismatch")
	})

	t.Run("not found", func(t *testing.T) {
		_, readErr := store.Read(context.Background(), "s3://tails-bucket/registries/missing", hash)
		require.ErrorIs(t, readErr, tails.ErrDataNotFound)
	})

	t.Run("unsupported location", func(t *testing.T) {
		_, readErr := store.Read(context.Background(), "/tmp/tails/"+hash, hash)
		require.ErrorContains(t, readErr, "unsupported tails location")
	})
}

func TestStoreErrors(t *testing.T) {
	uploader := &mockS3Uploader{
		t:      t,
		m:      map[string][]byte{},
		putErr: errors.New("put error"),
		getErr: errors.New("get error"),
	}

	store := NewStore(uploader, bucket, "")

	_, _, err := store.Write(context.Background(), []byte{0x1})
	require.ErrorContains(t, err, "put error")

	_, err = store.Read(context.Background(), "s3://tails-bucket/abc", "abc")
	require.ErrorContains(t, err, "get error")
}

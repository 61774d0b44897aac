/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package redistest runs a Redis container for tests.
package redistest

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	dctest "github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	dockerRedisImage = "redis"
	dockerRedisTag   = "alpine3.17"
)

// Start runs a Redis container purged at test cleanup and returns its address.
func Start(t *testing.T) string {
	t.Helper()

	pool, err := dctest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dctest.RunOptions{
		Repository: dockerRedisImage,
		Tag:        dockerRedisTag,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pool.Purge(resource), "failed to purge Redis resource")
	})

	addr := resource.GetHostPort("6379/tcp")

	require.NoError(t, backoff.Retry(func() error {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		return rdb.Ping(ctx).Err()
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 30)))

	return addr
}

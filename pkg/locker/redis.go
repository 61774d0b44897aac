/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package locker

import (
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultExpiry = 30 * time.Second
	defaultTries  = 64
)

// RedisLocker is a distributed locker backed by Redis.
type RedisLocker struct {
	rs *redsync.Redsync
}

// NewRedisLocker returns a locker storing its mutexes in client.
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		rs: redsync.New(goredis.NewPool(client)),
	}
}

// NewMutex returns the distributed mutex of key.
func (l *RedisLocker) NewMutex(key string, opts ...redsync.Option) Lock {
	return l.rs.NewMutex(key, append([]redsync.Option{
		redsync.WithExpiry(defaultExpiry),
		redsync.WithTries(defaultTries),
	}, opts...)...)
}

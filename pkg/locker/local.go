/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package locker

import (
	"context"
	"sync"

	"github.com/go-redsync/redsync/v4"
)

// Lock is a mutex that locks based on a key.
type Lock interface {
	LockContext(ctx context.Context) error
	UnlockContext(ctx context.Context) (bool, error)
	Unlock() (bool, error)
}

// KeyedMutexLocker is a process local locker that locks based on a key.
type KeyedMutexLocker struct {
	mu      sync.Mutex
	mutexes map[string]chan struct{}
}

// NewKeyedMutex creates a new mutex locker.
func NewKeyedMutex() *KeyedMutexLocker {
	return &KeyedMutexLocker{
		mutexes: make(map[string]chan struct{}),
	}
}

// NewMutex returns the mutex of key. Options apply to distributed lockers only.
func (k *KeyedMutexLocker) NewMutex(key string, _ ...redsync.Option) Lock {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.mutexes[key]; !ok {
		k.mutexes[key] = make(chan struct{}, 1)
	}

	return &KeyedMutex{
		ch: k.mutexes[key],
	}
}

// KeyedMutex is a mutex that locks based on a key.
type KeyedMutex struct {
	ch chan struct{}
}

// LockContext locks the mutex or returns ctx.Err() when ctx is done first.
func (k *KeyedMutex) LockContext(ctx context.Context) error {
	select {
	case k.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UnlockContext unlocks the mutex.
func (k *KeyedMutex) UnlockContext(_ context.Context) (bool, error) {
	return k.Unlock()
}

// Unlock unlocks the mutex. It returns false when the mutex was not locked.
func (k *KeyedMutex) Unlock() (bool, error) {
	select {
	case <-k.ch:
		return true, nil
	default:
		return false, nil
	}
}

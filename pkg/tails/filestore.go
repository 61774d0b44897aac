/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tails

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
)

var logger = log.New("tails-store")

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// FileStore keeps tails data as files named by their hash.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, or at a temporary directory when dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "tails")
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create tails dir: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// Write stores data and returns its path as location.
func (s *FileStore) Write(ctx context.Context, data []byte) (string, string, error) {
	hash := Hash(data)
	location := filepath.Join(s.dir, hash)

	if err := os.WriteFile(location, data, filePerm); err != nil {
		return "", "", fmt.Errorf("write tails file: %w", err)
	}

	logger.Debugc(ctx, "tails file written", logfields.WithTailsLocation(location))

	return location, hash, nil
}

// Read returns the data at location after verifying it against hash.
func (s *FileStore) Read(_ context.Context, location, hash string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(location))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDataNotFound
		}

		return nil, fmt.Errorf("read tails file: %w", err)
	}

	if err = Verify(data, hash); err != nil {
		return nil, err
	}

	return data, nil
}

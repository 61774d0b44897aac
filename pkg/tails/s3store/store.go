/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/tails"
)

var logger = log.New("tails-s3-store")

const (
	contentType = "application/octet-stream"
	urlScheme   = "s3"
)

type s3Uploader interface {
	PutObject(
		ctx context.Context,
		input *s3.PutObjectInput,
		opts ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)

	GetObject(
		ctx context.Context,
		input *s3.GetObjectInput,
		opts ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
}

// Store keeps tails data in an S3 bucket. Locations have the form s3://<bucket>/<prefix>/<hash>.
type Store struct {
	s3Client s3Uploader
	bucket   string
	prefix   string
}

// NewStore creates Store.
func NewStore(s3Uploader s3Uploader, bucket, prefix string) *Store {
	return &Store{
		s3Client: s3Uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}
}

// Write uploads data under its hash.
func (p *Store) Write(ctx context.Context, data []byte) (string, string, error) {
	hash := tails.Hash(data)
	key := path.Join(p.prefix, hash)

	_, err := p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Key:         aws.String(key),
		Bucket:      aws.String(p.bucket),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload tails: %w", err)
	}

	location := (&url.URL{Scheme: urlScheme, Host: p.bucket, Path: "/" + key}).String()

	logger.Debugc(ctx, "tails uploaded", logfields.WithTailsLocation(location))

	return location, hash, nil
}

// Read downloads the data at location and verifies it against hash.
func (p *Store) Read(ctx context.Context, location, hash string) ([]byte, error) {
	bucket, key, err := parseLocation(location)
	if err != nil {
		return nil, err
	}

	res, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var awsError *types.NoSuchKey
		if errors.As(err, &awsError) {
			return nil, tails.ErrDataNotFound
		}

		return nil, fmt.Errorf("failed to download tails: %w", err)
	}

	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			logger.Warnc(ctx, "failed to close tails object body", log.WithError(closeErr))
		}
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read tails object: %w", err)
	}

	if err = tails.Verify(data, hash); err != nil {
		return nil, err
	}

	return data, nil
}

func parseLocation(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse tails location: %w", err)
	}

	if u.Scheme != urlScheme || u.Host == "" {
		return "", "", fmt.Errorf("unsupported tails location %q", location)
	}

	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

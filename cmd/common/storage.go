/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/storage/mongodb"
	"github.com/trustbloc/revocreg/pkg/storage/redis"
)

const (
	// DatabaseURLFlagName is the MongoDB connection string.
	DatabaseURLFlagName = "mongodb-url"
	// DatabaseURLFlagUsage describes the usage.
	DatabaseURLFlagUsage = "MongoDB connection string storing the revocation registry state," +
		" e.g. 'mongodb://mongodb.example.com:27017'. Registry state is not persisted when empty." +
		" Alternatively, this can be set with the following environment variable: " + DatabaseURLEnvKey
	// DatabaseURLEnvKey is the MongoDB connection string.
	DatabaseURLEnvKey = "REVOCREG_MONGODB_URL"

	// DatabaseNameFlagName is the database name.
	DatabaseNameFlagName = "mongodb-database"
	// DatabaseNameEnvKey is the database name.
	DatabaseNameEnvKey = "REVOCREG_MONGODB_DATABASE"
	// DatabaseNameFlagUsage describes the usage.
	DatabaseNameFlagUsage = "MongoDB database name. Default: " + DatabaseNameDefault + "." +
		" Alternatively, this can be set with the following environment variable: " + DatabaseNameEnvKey

	// DatabaseTimeoutFlagName is the database timeout.
	DatabaseTimeoutFlagName = "database-timeout"
	// DatabaseTimeoutFlagUsage describes the usage.
	DatabaseTimeoutFlagUsage = "Total time in seconds to wait until MongoDB and Redis are available before giving up." +
		" Default: 30 seconds." +
		" Alternatively, this can be set with the following environment variable: " + DatabaseTimeoutEnvKey
	// DatabaseTimeoutEnvKey is the database timeout.
	DatabaseTimeoutEnvKey = "REVOCREG_DATABASE_TIMEOUT"

	// RedisURLFlagName is the Redis address used by the registry locks.
	RedisURLFlagName = "redis-url"
	// RedisURLEnvKey is the Redis address.
	RedisURLEnvKey = "REVOCREG_REDIS_URL"
	// RedisURLFlagUsage describes the usage.
	RedisURLFlagUsage = "Comma separated Redis addresses used for distributed registry locks." +
		" A process local lock is used when empty." +
		" Alternatively, this can be set with the following environment variable: " + RedisURLEnvKey

	// DatabaseNameDefault is the default database name.
	DatabaseNameDefault = "revocreg"
	// DatabaseTimeoutDefault is the default storage timeout.
	DatabaseTimeoutDefault = 30
)

// DBParameters holds database configuration.
type DBParameters struct {
	URL      string
	Name     string
	RedisURL []string
	Timeout  uint64
}

// Flags registers common command flags.
func Flags(cmd *cobra.Command) {
	cmd.Flags().StringP(DatabaseURLFlagName, "", "", DatabaseURLFlagUsage)
	cmd.Flags().StringP(DatabaseNameFlagName, "", "", DatabaseNameFlagUsage)
	cmd.Flags().StringP(DatabaseTimeoutFlagName, "", "", DatabaseTimeoutFlagUsage)
	cmd.Flags().StringSliceP(RedisURLFlagName, "", []string{}, RedisURLFlagUsage)
}

// DBParams fetches the DB parameters configured for this command.
func DBParams(cmd *cobra.Command) (*DBParameters, error) {
	var err error

	params := &DBParameters{
		URL:      cmdutils.GetUserSetOptionalVarFromString(cmd, DatabaseURLFlagName, DatabaseURLEnvKey),
		Name:     cmdutils.GetUserSetOptionalVarFromString(cmd, DatabaseNameFlagName, DatabaseNameEnvKey),
		RedisURL: cmdutils.GetUserSetOptionalCSVVar(cmd, RedisURLFlagName, RedisURLEnvKey),
	}

	if params.URL != "" && !strings.HasPrefix(params.URL, "mongodb://") &&
		!strings.HasPrefix(params.URL, "mongodb+srv://") {
		return nil, fmt.Errorf("unsupported database url %s: only mongodb is supported", params.URL)
	}

	if params.Name == "" {
		params.Name = DatabaseNameDefault
	}

	timeout := cmdutils.GetUserSetOptionalVarFromString(cmd, DatabaseTimeoutFlagName, DatabaseTimeoutEnvKey)
	if timeout == "" {
		timeout = strconv.Itoa(DatabaseTimeoutDefault)
	}

	params.Timeout, err = strconv.ParseUint(timeout, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dbTimeout %s: %w", timeout, err)
	}

	return params, nil
}

// InitMongoDB connects to MongoDB, retrying until the configured timeout. It returns nil when no
// database url is configured.
func InitMongoDB(params *DBParameters, logger *log.Log, opts ...mongodb.ClientOpt) (*mongodb.Client, error) {
	if params.URL == "" {
		return nil, nil
	}

	var client *mongodb.Client

	err := retry(func() error {
		var openErr error
		client, openErr = mongodb.New(params.URL, params.Name, opts...)

		return openErr
	}, params.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init mongodb: %w", err)
	}

	return client, nil
}

// InitRedis connects to Redis, retrying until the configured timeout. It returns nil when no
// Redis address is configured.
func InitRedis(params *DBParameters, logger *log.Log, opts ...redis.Opt) (*redis.Client, error) {
	if len(params.RedisURL) == 0 {
		return nil, nil
	}

	var client *redis.Client

	err := retry(func() error {
		var openErr error
		client, openErr = redis.New(params.RedisURL, opts...)

		return openErr
	}, params.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	return client, nil
}

func retry(task func() error, numRetries uint64, logger *log.Log) error {
	const sleep = 1 * time.Second

	return backoff.RetryNotify(
		task,
		backoff.WithMaxRetries(backoff.NewConstantBackOff(sleep), numRetries),
		func(retryErr error, t time.Duration) {
			logger.Warn("Failed to connect to storage, will sleep before trying again.",
				logfields.WithSleep(t), log.WithError(retryErr))
		},
	)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"

	"github.com/trustbloc/revocreg/cmd/common"
	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/observability/tracing"
)

const (
	commonEnvVarUsageText = " Alternatively, this can be set with the following environment variable: "

	seedFlagName      = "seed"
	seedFlagShorthand = "s"
	seedEnvKey        = "REVOCREG_SEED"
	seedFlagUsage     = "32 byte seed of the root (trustee) identity. Default: " + defaultSeed + "." +
		commonEnvVarUsageText + seedEnvKey

	genesisFlagName      = "genesis"
	genesisFlagShorthand = "g"
	genesisEnvKey        = "REVOCREG_GENESIS_FILE"
	genesisFlagUsage     = "Path to the pool genesis transactions file. Default: " + defaultGenesis + "." +
		commonEnvVarUsageText + genesisEnvKey

	actionFlagName      = "action"
	actionFlagShorthand = "a"
	actionEnvKey        = "REVOCREG_ACTION"
	actionFlagUsage     = "Action to perform: rev, flag, get_flag or get_nym. Default: " + actionGetFlag + "." +
		commonEnvVarUsageText + actionEnvKey

	ledgerURLFlagName  = "ledger-url"
	ledgerURLEnvKey    = "REVOCREG_LEDGER_URL"
	ledgerURLFlagUsage = "URL of the ledger HTTP proxy. An in-process local ledger is used when empty." +
		commonEnvVarUsageText + ledgerURLEnvKey

	ledgerDBPathFlagName  = "ledger-db-path"
	ledgerDBPathEnvKey    = "REVOCREG_LEDGER_DB_PATH"
	ledgerDBPathFlagUsage = "Directory of the local ledger database. The local ledger is kept in memory when empty." +
		commonEnvVarUsageText + ledgerDBPathEnvKey

	tailsDirFlagName  = "tails-dir"
	tailsDirEnvKey    = "REVOCREG_TAILS_DIR"
	tailsDirFlagUsage = "Directory storing tails files when no S3 bucket is set." +
		commonEnvVarUsageText + tailsDirEnvKey

	tailsS3BucketFlagName  = "tails-s3-bucket"
	tailsS3BucketEnvKey    = "REVOCREG_TAILS_S3_BUCKET"
	tailsS3BucketFlagUsage = "S3 bucket storing tails files." + commonEnvVarUsageText + tailsS3BucketEnvKey

	tailsS3RegionFlagName  = "tails-s3-region"
	tailsS3RegionEnvKey    = "REVOCREG_TAILS_S3_REGION"
	tailsS3RegionFlagUsage = "Region of the tails S3 bucket." + commonEnvVarUsageText + tailsS3RegionEnvKey

	tailsS3EndpointFlagName  = "tails-s3-endpoint"
	tailsS3EndpointEnvKey    = "REVOCREG_TAILS_S3_ENDPOINT"
	tailsS3EndpointFlagUsage = "Custom S3 endpoint, e.g. a localstack URL." +
		commonEnvVarUsageText + tailsS3EndpointEnvKey

	schemaNameFlagName  = "schema-name"
	schemaNameEnvKey    = "REVOCREG_SCHEMA_NAME"
	schemaNameFlagUsage = "Schema name. Default: " + defaultSchemaName + "." + commonEnvVarUsageText + schemaNameEnvKey

	schemaVersionFlagName  = "schema-version"
	schemaVersionEnvKey    = "REVOCREG_SCHEMA_VERSION"
	schemaVersionFlagUsage = "Schema version. Default: " + defaultSchemaVersion + "." +
		commonEnvVarUsageText + schemaVersionEnvKey

	schemaAttributesFlagName  = "schema-attributes"
	schemaAttributesEnvKey    = "REVOCREG_SCHEMA_ATTRIBUTES"
	schemaAttributesFlagUsage = "Comma separated schema attribute names. Default: name,age,sex,height." +
		commonEnvVarUsageText + schemaAttributesEnvKey

	revRegCapacityFlagName  = "rev-reg-capacity"
	revRegCapacityEnvKey    = "REVOCREG_REV_REG_CAPACITY"
	revRegCapacityFlagUsage = "Maximum number of credentials of the revocation registry. Default: 50." +
		commonEnvVarUsageText + revRegCapacityEnvKey

	revokeFlagName  = "revoke"
	revokeEnvKey    = "REVOCREG_REVOKE"
	revokeFlagUsage = "Comma separated credential indices revoked with one registry entry. Repeat the flag" +
		" for several entries. Default: 1,5,6,7 then 8." + commonEnvVarUsageText + revokeEnvKey +
		" (entries separated by ';')"

	stateEncryptionKeyFlagName  = "state-encryption-key"
	stateEncryptionKeyEnvKey    = "REVOCREG_STATE_ENCRYPTION_KEY" //nolint:gosec
	stateEncryptionKeyFlagUsage = "Base64 encoded 16, 24 or 32 byte AES key encrypting the registry private" +
		" material stored in MongoDB. The material is stored in clear when empty." +
		commonEnvVarUsageText + stateEncryptionKeyEnvKey

	tracingProviderFlagName  = "tracing-provider"
	tracingProviderEnvKey    = "REVOCREG_TRACING_PROVIDER"
	tracingProviderFlagUsage = "Tracing exporter: STDOUT or empty for none." +
		commonEnvVarUsageText + tracingProviderEnvKey

	metricsProviderFlagName  = "metrics-provider"
	metricsProviderEnvKey    = "REVOCREG_METRICS_PROVIDER"
	metricsProviderFlagUsage = "Metrics provider: prometheus or empty for none." +
		commonEnvVarUsageText + metricsProviderEnvKey

	promHTTPURLFlagName  = "prom-http-url"
	promHTTPURLEnvKey    = "REVOCREG_PROM_HTTP_URL"
	promHTTPURLFlagUsage = "Address serving prometheus metrics, e.g. :2112. Metrics are collected only when empty." +
		commonEnvVarUsageText + promHTTPURLEnvKey
)

const (
	defaultSeed          = "000000000000000000000000Trustee1"
	defaultGenesis       = "./pool_transactions_genesis"
	defaultSchemaName    = "gvt"
	defaultSchemaVersion = "1.0"
	defaultCapacity      = 50

	actionRev     = "rev"
	actionFlag    = "flag"
	actionGetFlag = "get_flag"
	actionGetNym  = "get_nym"

	metricsProviderPrometheus = "prometheus"
)

//nolint:gochecknoglobals
var (
	defaultAttributes  = []string{"name", "age", "sex", "height"}
	defaultRevocations = [][]uint32{{1, 5, 6, 7}, {8}}
	supportedActions   = []string{actionRev, actionFlag, actionGetFlag, actionGetNym}
)

type startupParameters struct {
	seed               string
	genesisFile        string
	action             string
	ledgerURL          string
	ledgerDBPath       string
	tails              *tailsParameters
	schemaName         string
	schemaVersion      string
	schemaAttributes   []string
	capacity           uint32
	revocations        [][]uint32
	stateEncryptionKey []byte
	dbParameters       *common.DBParameters
	logLevel           string
	tracingProvider    tracing.SpanExporterType
	metricsProvider    string
	promHTTPURL        string
}

type tailsParameters struct {
	dir        string
	s3Bucket   string
	s3Region   string
	s3Endpoint string
}

func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	seed := cmdutils.GetUserSetOptionalVarFromString(cmd, seedFlagName, seedEnvKey)
	if seed == "" {
		seed = defaultSeed
	}

	genesisFile := cmdutils.GetUserSetOptionalVarFromString(cmd, genesisFlagName, genesisEnvKey)
	if genesisFile == "" {
		genesisFile = defaultGenesis
	}

	action := cmdutils.GetUserSetOptionalVarFromString(cmd, actionFlagName, actionEnvKey)
	if action == "" {
		action = actionGetFlag
	}

	if !lo.Contains(supportedActions, action) {
		return nil, fmt.Errorf("unsupported action %q, expected one of %s", action,
			strings.Join(supportedActions, ", "))
	}

	capacity, err := getCapacity(cmd)
	if err != nil {
		return nil, err
	}

	revocations, err := getRevocations(cmd)
	if err != nil {
		return nil, err
	}

	stateEncryptionKey, err := getStateEncryptionKey(cmd)
	if err != nil {
		return nil, err
	}

	dbParameters, err := common.DBParams(cmd)
	if err != nil {
		return nil, err
	}

	tracingProvider := cmdutils.GetUserSetOptionalVarFromString(cmd, tracingProviderFlagName, tracingProviderEnvKey)
	if !tracing.IsExportedSupported(tracingProvider) {
		return nil, fmt.Errorf("unsupported tracing provider: %s", tracingProvider)
	}

	metricsProvider := cmdutils.GetUserSetOptionalVarFromString(cmd, metricsProviderFlagName, metricsProviderEnvKey)
	if metricsProvider != "" && metricsProvider != metricsProviderPrometheus {
		return nil, fmt.Errorf("unsupported metrics provider: %s", metricsProvider)
	}

	schemaAttributes := cmdutils.GetUserSetOptionalCSVVar(cmd, schemaAttributesFlagName, schemaAttributesEnvKey)
	if len(schemaAttributes) == 0 {
		schemaAttributes = defaultAttributes
	}

	schemaName := cmdutils.GetUserSetOptionalVarFromString(cmd, schemaNameFlagName, schemaNameEnvKey)
	if schemaName == "" {
		schemaName = defaultSchemaName
	}

	schemaVersion := cmdutils.GetUserSetOptionalVarFromString(cmd, schemaVersionFlagName, schemaVersionEnvKey)
	if schemaVersion == "" {
		schemaVersion = defaultSchemaVersion
	}

	return &startupParameters{
		seed:               seed,
		genesisFile:        genesisFile,
		action:             action,
		ledgerURL:          cmdutils.GetUserSetOptionalVarFromString(cmd, ledgerURLFlagName, ledgerURLEnvKey),
		ledgerDBPath:       cmdutils.GetUserSetOptionalVarFromString(cmd, ledgerDBPathFlagName, ledgerDBPathEnvKey),
		tails:              getTailsParameters(cmd),
		schemaName:         schemaName,
		schemaVersion:      schemaVersion,
		schemaAttributes:   schemaAttributes,
		capacity:           capacity,
		revocations:        revocations,
		stateEncryptionKey: stateEncryptionKey,
		dbParameters:       dbParameters,
		logLevel:           cmdutils.GetUserSetOptionalVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey),
		tracingProvider:    tracingProvider,
		metricsProvider:    metricsProvider,
		promHTTPURL:        cmdutils.GetUserSetOptionalVarFromString(cmd, promHTTPURLFlagName, promHTTPURLEnvKey),
	}, nil
}

func getTailsParameters(cmd *cobra.Command) *tailsParameters {
	return &tailsParameters{
		dir:        cmdutils.GetUserSetOptionalVarFromString(cmd, tailsDirFlagName, tailsDirEnvKey),
		s3Bucket:   cmdutils.GetUserSetOptionalVarFromString(cmd, tailsS3BucketFlagName, tailsS3BucketEnvKey),
		s3Region:   cmdutils.GetUserSetOptionalVarFromString(cmd, tailsS3RegionFlagName, tailsS3RegionEnvKey),
		s3Endpoint: cmdutils.GetUserSetOptionalVarFromString(cmd, tailsS3EndpointFlagName, tailsS3EndpointEnvKey),
	}
}

func getCapacity(cmd *cobra.Command) (uint32, error) {
	value := cmdutils.GetUserSetOptionalVarFromString(cmd, revRegCapacityFlagName, revRegCapacityEnvKey)
	if value == "" {
		return defaultCapacity, nil
	}

	capacity, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", revRegCapacityFlagName, value, err)
	}

	if capacity == 0 || capacity > anoncreds.MaxRegistryCapacity {
		return 0, fmt.Errorf("invalid %s %d: must be between 1 and %d", revRegCapacityFlagName, capacity,
			anoncreds.MaxRegistryCapacity)
	}

	return uint32(capacity), nil
}

// getRevocations parses index batches. The flag is repeated per batch; the env var separates batches
// with ';'.
func getRevocations(cmd *cobra.Command) ([][]uint32, error) {
	var batches []string

	if cmd.Flags().Changed(revokeFlagName) {
		batches = cmdutils.GetUserSetOptionalVarFromArrayString(cmd, revokeFlagName, revokeEnvKey)
	} else if value, ok := os.LookupEnv(revokeEnvKey); ok && value != "" {
		batches = strings.Split(value, ";")
	}

	if len(batches) == 0 {
		return defaultRevocations, nil
	}

	revocations := make([][]uint32, 0, len(batches))

	for _, batch := range batches {
		var indices []uint32

		for _, s := range strings.Split(batch, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}

			idx, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid %s index %q: %w", revokeFlagName, s, err)
			}

			indices = append(indices, uint32(idx))
		}

		if len(indices) > 0 {
			revocations = append(revocations, indices)
		}
	}

	return revocations, nil
}

func getStateEncryptionKey(cmd *cobra.Command) ([]byte, error) {
	value := cmdutils.GetUserSetOptionalVarFromString(cmd, stateEncryptionKeyFlagName, stateEncryptionKeyEnvKey)
	if value == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", stateEncryptionKeyFlagName, err)
	}

	return key, nil
}

func createFlags(startCmd *cobra.Command) {
	common.Flags(startCmd)

	startCmd.Flags().StringP(seedFlagName, seedFlagShorthand, "", seedFlagUsage)
	startCmd.Flags().StringP(genesisFlagName, genesisFlagShorthand, "", genesisFlagUsage)
	startCmd.Flags().StringP(actionFlagName, actionFlagShorthand, "", actionFlagUsage)
	startCmd.Flags().StringP(ledgerURLFlagName, "", "", ledgerURLFlagUsage)
	startCmd.Flags().StringP(ledgerDBPathFlagName, "", "", ledgerDBPathFlagUsage)
	startCmd.Flags().StringP(tailsDirFlagName, "", "", tailsDirFlagUsage)
	startCmd.Flags().StringP(tailsS3BucketFlagName, "", "", tailsS3BucketFlagUsage)
	startCmd.Flags().StringP(tailsS3RegionFlagName, "", "", tailsS3RegionFlagUsage)
	startCmd.Flags().StringP(tailsS3EndpointFlagName, "", "", tailsS3EndpointFlagUsage)
	startCmd.Flags().StringP(schemaNameFlagName, "", "", schemaNameFlagUsage)
	startCmd.Flags().StringP(schemaVersionFlagName, "", "", schemaVersionFlagUsage)
	startCmd.Flags().StringSliceP(schemaAttributesFlagName, "", []string{}, schemaAttributesFlagUsage)
	startCmd.Flags().StringP(revRegCapacityFlagName, "", "", revRegCapacityFlagUsage)
	startCmd.Flags().StringArrayP(revokeFlagName, "", []string{}, revokeFlagUsage)
	startCmd.Flags().StringP(stateEncryptionKeyFlagName, "", "", stateEncryptionKeyFlagUsage)
	startCmd.Flags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "",
		common.LogLevelPrefixFlagUsage)
	startCmd.Flags().StringP(tracingProviderFlagName, "", "", tracingProviderFlagUsage)
	startCmd.Flags().StringP(metricsProviderFlagName, "", "", metricsProviderFlagUsage)
	startCmd.Flags().StringP(promHTTPURLFlagName, "", "", promHTTPURLFlagUsage)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package revocreg-cli publishes credential revocation registries to the ledger.
package main

import (
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/cmd/revocreg-cli/startcmd"
)

var logger = log.New("revocreg-cli")
var Version string // will be embeded during build

func main() {
	rootCmd := &cobra.Command{
		Use: "revocreg-cli",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd(startcmd.WithVersion(Version)))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to run revocreg-cli", log.WithError(err))
	}
}

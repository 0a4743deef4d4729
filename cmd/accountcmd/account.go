// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var app *application.Launchpad

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage smart accounts and local balances",
		Long: `Participants pledge from smart accounts. Each account is owned by a key and
accepts signed permits from that key only.

The mint command credits local test balances of the pool currency, the
governance token or any reward token.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newMintCmd())
	cmd.AddCommand(newBalanceCmd())
	return cmd
}

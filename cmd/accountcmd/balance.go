// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var balanceToken string

func newBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Show a token balance",
		Args:  cobrautils.ExactArgs(1),
		RunE:  runBalance,
	}
	flags.AddTokenFlagToCmd(cmd, &balanceToken, flags.CurrencyToken)
	return cmd
}

func runBalance(_ *cobra.Command, args []string) error {
	holder, err := cobrautils.ParseAddress("address", args[0])
	if err != nil {
		return err
	}
	return app.View(func(e *application.Engine) error {
		token, err := flags.ResolveToken(e.Settings, balanceToken)
		if err != nil {
			return err
		}
		ux.Logger.PrintToUser("%s", e.Ledger.BalanceOf(token, holder))
		return nil
	})
}

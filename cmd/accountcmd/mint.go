// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"math/big"

	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	mintToken  string
	mintAmount *big.Int
)

func newMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint <address>",
		Short: "Credit a local token balance",
		Long: `Credit amount of a token to any address. Use it to fund participants with
the pool currency and governance stake, or the distributor custody with reward tokens.

Examples:
  launchpad account mint 0x... --amount 5000000000
  launchpad account mint 0x... --token governance --amount 100000000000000000000`,
		Args: cobrautils.ExactArgs(1),
		RunE: runMint,
	}
	flags.AddTokenFlagToCmd(cmd, &mintToken, flags.CurrencyToken)
	flags.AddAmountFlag(cmd.Flags(), &mintAmount, "amount", "amount in base units")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runMint(_ *cobra.Command, args []string) error {
	to, err := cobrautils.ParseAddress("address", args[0])
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		token, err := flags.ResolveToken(e.Settings, mintToken)
		if err != nil {
			return err
		}
		if err := e.Ledger.Mint(token, to, mintAmount); err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Minted %s of %s to %s", mintAmount, token, to)
		return nil
	})
}

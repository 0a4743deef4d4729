// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package distributorcmd

import (
	"math/big"

	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var fundAmount *big.Int

func newFundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund <project-id>",
		Short: "Mint a project's token into the distributor custody",
		Args:  cobrautils.ExactArgs(1),
		RunE:  runFund,
	}
	flags.AddAmountFlag(cmd.Flags(), &fundAmount, "amount", "amount in base units")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runFund(_ *cobra.Command, args []string) error {
	id, err := parseProjectID(args[0])
	if err != nil {
		return err
	}
	amount := fundAmount
	return app.Update(func(e *application.Engine) error {
		p, err := e.Distributor.Project(id)
		if err != nil {
			return err
		}
		custody := e.Distributor.Custody()
		if err := e.Ledger.Mint(p.Token, custody, amount); err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Custody holds %s of %s", e.Ledger.BalanceOf(p.Token, custody), p.Token)
		return nil
	})
}

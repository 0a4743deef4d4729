// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle <pool-id>",
		Short: "Refund every pledger that did not win",
		Args:  cobrautils.ExactArgs(1),
		RunE:  runSettle,
	}
	flags.AddCallerFlagToCmd(cmd, &callerKey)
	return cmd
}

func runSettle(cmd *cobra.Command, args []string) error {
	id, err := parsePoolID(args[0])
	if err != nil {
		return err
	}
	caller, err := app.GetKey(callerKey)
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		refunds, err := e.Registry.RefundLosers(contextOf(cmd), caller.Address(), id)
		if err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Pool %d settled, %d refunds", id, len(refunds))
		if len(refunds) == 0 {
			return nil
		}
		table := ux.NewTable("Account", "Refund")
		for _, r := range refunds {
			table.AppendRow(r.Account.Hex(), r.Amount.String())
		}
		return table.Render()
	})
}

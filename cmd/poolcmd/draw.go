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

var (
	callbackGasLimit uint32
	fulfillNow       bool
)

func newDrawCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw <pool-id>",
		Short: "Request randomness and pick winners",
		Long: `Close a pool whose pledging window has ended. With the raffle enabled this
requests random words and the winners are picked when they arrive; pass --fulfill
to deliver them right away. Without the raffle the first pledgers win.`,
		Args: cobrautils.ExactArgs(1),
		RunE: runDraw,
	}
	flags.AddCallerFlagToCmd(cmd, &callerKey)
	cmd.Flags().Uint32Var(&callbackGasLimit, "callback-gas-limit", 0, "gas for the randomness callback (default from config)")
	cmd.Flags().BoolVar(&fulfillNow, "fulfill", false, "deliver the randomness immediately")
	return cmd
}

func runDraw(cmd *cobra.Command, args []string) error {
	id, err := parsePoolID(args[0])
	if err != nil {
		return err
	}
	caller, err := app.GetKey(callerKey)
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		limit := callbackGasLimit
		if limit == 0 {
			limit = e.Settings.CallbackGasLimit
		}
		ctx := contextOf(cmd)
		requestID, err := e.Registry.Draw(ctx, caller.Address(), id, limit)
		if err != nil {
			return err
		}
		if requestID == nil {
			ux.Logger.GreenCheckmarkToUser("Pool %d drawn without raffle", id)
			return printWinners(e, id)
		}
		ux.Logger.GreenCheckmarkToUser("Randomness requested for pool %d, request %s", id, requestID)
		if !fulfillNow {
			ux.Logger.PrintToUser("Run 'launchpad pool fulfill %s' to deliver it", requestID)
			return nil
		}
		if err := e.Coordinator.Fulfill(ctx, requestID.Uint64()); err != nil {
			ux.Logger.RedXToUser("%s", err)
			return nil
		}
		return printWinners(e, id)
	})
}

func printWinners(e *application.Engine, id uint64) error {
	winners, err := e.Registry.Winners(id)
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("%d winners", len(winners))
	table := ux.NewTable("Winner")
	for _, w := range winners {
		table.AppendRow(w.Hex())
	}
	return table.Render()
}

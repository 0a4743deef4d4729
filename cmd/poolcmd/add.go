// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"context"
	"time"

	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/poolspec"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <pool.yaml>",
		Short: "Add a pool from a YAML definition",
		Long: `Add a pool. The file names the reward token, the pledging window, the
allocation schedule and one entry per tier with its pledge bounds and winner quota.
Tiers are listed in priority order; the last one takes every pledger not assigned
elsewhere.

  rewardToken: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  startsIn: 1m
  pledgeFor: 48h
  allocationDelay: 168h
  monthlyAllocation: "1000000000000000000000"
  allocationMonths: 12
  targetRaise: "9000000000"
  raffle: true
  tiers:
    - {id: 0, min: "1000000000", max: "1000000000", winners: 4}
    - {id: 1, min: "3000000000", max: "3000000000", winners: 3}
    - {id: 2, min: "5000000000", max: "5000000000", winners: 2}`,
		Args: cobrautils.ExactArgs(1),
		RunE: runAdd,
	}
	flags.AddCallerFlagToCmd(cmd, &callerKey)
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	spec, err := poolspec.Load(args[0])
	if err != nil {
		return err
	}
	cfg, err := spec.PoolConfig(time.Now())
	if err != nil {
		return err
	}
	caller, err := app.GetKey(callerKey)
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		id, err := e.Registry.AddPool(contextOf(cmd), caller.Address(), cfg)
		if err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Pool %d added", id)
		ux.Logger.PrintToUser("Pledging: %s to %s", cfg.PledgingStart.Format(time.RFC3339), cfg.PledgingEnd.Format(time.RFC3339))
		ux.Logger.PrintToUser("Winners:  %d", cfg.TotalWinners())
		return nil
	})
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"strconv"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var (
	app       *application.Launchpad
	callerKey string
)

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Create pools, take pledges and run draws",
		Long: `A pool moves through four states:

  NotStarted  pledges and tier assignments are accepted
  Requested   a draw is waiting for randomness
  Fulfilled   winners are chosen
  Settled     losers have been refunded

To run a pool end to end:
  launchpad pool add pool.yaml
  launchpad pool pledge 0 --key alice --amount 1000000000
  launchpad pool tier 0 0 0x...
  launchpad pool draw 0 --fulfill
  launchpad pool settle 0`,
		RunE: cobrautils.CommandSuiteUsage,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newPledgeCmd())
	cmd.AddCommand(newTierCmd())
	cmd.AddCommand(newDrawCmd())
	cmd.AddCommand(newFulfillCmd())
	cmd.AddCommand(newSettleCmd())
	return cmd
}

func parsePoolID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"strconv"

	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newTierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier <pool-id> <tier-id> <account>...",
		Short: "Assign pledgers to a tier",
		Long: `Assign accounts to a tier before the draw. Each account must have pledged an
amount inside the tier's bounds and can sit in one tier only. The last tier needs no
assignment.`,
		Args: cobra.MinimumNArgs(3),
		RunE: runTier,
	}
	flags.AddCallerFlagToCmd(cmd, &callerKey)
	return cmd
}

func runTier(cmd *cobra.Command, args []string) error {
	id, err := parsePoolID(args[0])
	if err != nil {
		return err
	}
	tierID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	accounts, err := cobrautils.ParseAddresses("account", args[2:])
	if err != nil {
		return err
	}
	caller, err := app.GetKey(callerKey)
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		if err := e.Registry.AddToTier(contextOf(cmd), caller.Address(), id, tierID, accounts); err != nil {
			return err
		}
		members, err := e.Registry.TierMembers(id, tierID)
		if err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Tier %d of pool %d has %d members", tierID, id, len(members))
		return nil
	})
}

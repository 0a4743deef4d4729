// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package distributorcmd

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
		Use:   "distributor",
		Short: "Register projects and claim vested tokens",
		Long: `The distributor releases a project's tokens to its winners in equal parts,
one part per cycle. A participant proves its entitlement with the proof from
'launchpad merkle build' and receives everything vested since its last claim.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newFundCmd())
	cmd.AddCommand(newClaimCmd())
	cmd.AddCommand(newStatusCmd())
	return cmd
}

func parseProjectID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

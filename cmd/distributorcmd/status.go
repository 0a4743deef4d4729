// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package distributorcmd

import (
	"time"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project-id>",
		Short: "Show a project and, with --account, what it has vested",
		Args:  cobrautils.ExactArgs(1),
		RunE:  runStatus,
	}
	addAccountFlags(cmd)
	return cmd
}

func runStatus(_ *cobra.Command, args []string) error {
	id, err := parseProjectID(args[0])
	if err != nil {
		return err
	}
	return app.View(func(e *application.Engine) error {
		p, err := e.Distributor.Project(id)
		if err != nil {
			return err
		}
		now := time.Now()
		length := e.Distributor.CycleLength()
		ux.Logger.PrintToUser("Project %d", p.ID)
		ux.Logger.PrintToUser("Token:      %s", p.Token)
		ux.Logger.PrintToUser("Per cycle:  %s", p.PerCycleAmount)
		ux.Logger.PrintToUser("Cycles:     %d of %d elapsed (%s each)", p.CyclesElapsed(now, length), p.CycleCount, length)
		ux.Logger.PrintToUser("Starts:     %s", p.CycleStart.Format(time.RFC3339))
		ux.Logger.PrintToUser("Root:       %s", p.MerkleRoot)
		ux.Logger.PrintToUser("Custody:    %s", e.Ledger.BalanceOf(p.Token, e.Distributor.Custody()))
		if claimAccount == "" {
			return nil
		}

		acc, err := cobrautils.ParseAddress("--account", claimAccount)
		if err != nil {
			return err
		}
		claimed, err := e.Distributor.Claimed(id, acc)
		if err != nil {
			return err
		}
		ux.Logger.PrintLineSeparator()
		ux.Logger.PrintToUser("Account:    %s", acc)
		ux.Logger.PrintToUser("Claimed:    %s", claimed)
		if claimsFile == "" && claimAmount == "" {
			return nil
		}
		entitlement, _, err := entitlementOf(acc)
		if err != nil {
			return err
		}
		ux.Logger.PrintToUser("Vested:     %s of %s", p.Vested(entitlement, now, length), entitlement)
		return nil
	})
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/registry"
	"github.com/luxfi/launchpad/pkg/statemachine"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var describeJSON bool

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <pool-id>",
		Short: "Show a pool with its tiers, pledges and winners",
		Args:  cobrautils.ExactArgs(1),
		RunE:  runDescribe,
	}
	cmd.Flags().BoolVar(&describeJSON, "json", false, "print as JSON")
	return cmd
}

func runDescribe(_ *cobra.Command, args []string) error {
	id, err := parsePoolID(args[0])
	if err != nil {
		return err
	}
	return app.View(func(e *application.Engine) error {
		p, err := e.Registry.Pool(id)
		if err != nil {
			return err
		}
		pledges, err := e.Registry.Pledges(id)
		if err != nil {
			return err
		}
		if describeJSON {
			out, err := json.MarshalIndent(struct {
				registry.Pool
				Pledges []registry.Pledge `json:"pledges"`
			}{p, pledges}, "", "  ")
			if err != nil {
				return err
			}
			ux.Logger.PrintToUser("%s", out)
			return nil
		}
		printPool(p, pledges)
		return nil
	})
}

func printPool(p registry.Pool, pledges []registry.Pledge) {
	ux.Logger.PrintToUser("Pool %d: %s", p.ID, p.DrawState)
	ux.Logger.PrintToUser("Reward token:     %s", p.RewardToken)
	ux.Logger.PrintToUser("Pledging window:  %s to %s", p.PledgingStart.Format(time.RFC3339), p.PledgingEnd.Format(time.RFC3339))
	ux.Logger.PrintToUser("Allocation:       %s x %d months from %s", p.MonthlyAllocation, p.AllocationMonths, p.TokenAllocationStart.Format(time.RFC3339))
	ux.Logger.PrintToUser("Pledged / target: %s / %s", p.TotalPledged, p.TargetRaise)
	if p.RequestID != nil {
		ux.Logger.PrintToUser("Request:          %s (%d words)", p.RequestID, p.NumWords)
	}
	ux.Logger.PrintLineSeparator()

	tiers := ux.NewTable("Tier", "Min", "Max", "Winners", "Members")
	for i, t := range p.PledgeTiers {
		members := strconv.Itoa(len(p.Tiers[i].Members))
		if i == len(p.PledgeTiers)-1 && len(p.Tiers[i].Members) == 0 {
			// the last tier takes everyone unassigned
			members = "rest"
		}
		tiers.AppendRow(strconv.FormatUint(t.TierID, 10), t.MinPledge.String(), t.MaxPledge.String(),
			strconv.FormatUint(p.TierWinners[i], 10), members)
	}
	_ = tiers.Render()

	winners := make(map[string]bool, len(p.Winners))
	for _, w := range p.Winners {
		winners[w.Hex()] = true
	}
	table := ux.NewTable("Account", "Amount", "Tier", "Outcome")
	for _, pl := range pledges {
		table.AppendRow(pl.Account.Hex(), pl.Amount.String(), strconv.FormatUint(pl.TierID, 10), outcome(p, pl, winners[pl.Account.Hex()]))
	}
	_ = table.Render()
}

func outcome(p registry.Pool, pl registry.Pledge, won bool) string {
	switch {
	case won:
		return "won"
	case pl.Refunded:
		return "refunded"
	case p.DrawState >= statemachine.Fulfilled:
		return "lost"
	}
	return fmt.Sprintf("pending (%s)", p.DrawState)
}

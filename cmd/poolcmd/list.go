// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"strconv"
	"time"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return app.View(func(e *application.Engine) error {
				table := ux.NewTable("ID", "State", "Pledging ends", "Pledged", "Target", "Winners")
				for _, p := range e.Registry.Pools() {
					table.AppendRow(
						strconv.FormatUint(p.ID, 10),
						p.DrawState.String(),
						p.PledgingEnd.Format(time.RFC3339),
						p.TotalPledged.String(),
						p.TargetRaise.String(),
						strconv.FormatUint(p.TotalWinners(), 10),
					)
				}
				return table.Render()
			})
		},
	}
}

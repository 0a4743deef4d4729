// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package poolcmd

import (
	"strconv"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newFulfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fulfill [request-id]",
		Short: "Deliver pending randomness",
		Long: `Deliver the random words for one request, or for every pending request when
no id is given. A request is retired even when the registry rejects its words.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFulfill,
	}
}

func runFulfill(cmd *cobra.Command, args []string) error {
	return app.Update(func(e *application.Engine) error {
		ctx := contextOf(cmd)
		if len(args) == 1 {
			requestID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			// a rejected callback still retires the request, so the state is saved
			if err := e.Coordinator.Fulfill(ctx, requestID); err != nil {
				ux.Logger.RedXToUser("%s", err)
				return nil
			}
			ux.Logger.GreenCheckmarkToUser("Request %d fulfilled", requestID)
			return nil
		}
		delivered, err := e.DeliverPending(ctx)
		ux.Logger.PrintToUser("Delivered %d requests", delivered)
		if err != nil {
			ux.Logger.RedXToUser("Some callbacks failed: %s", err)
		}
		return nil
	})
}

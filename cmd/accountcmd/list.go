// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List smart accounts with their currency and governance balances",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return app.View(func(e *application.Engine) error {
				table := ux.NewTable("Account", "Owner", "Nonce", "Currency", "Governance")
				for _, acc := range e.Accounts.List() {
					table.AppendRow(
						acc.Address().Hex(),
						acc.Owner().Hex(),
						acc.Nonce().String(),
						e.Ledger.BalanceOf(e.Settings.Currency, acc.Address()).String(),
						e.Ledger.BalanceOf(e.Settings.GovernanceToken, acc.Address()).String(),
					)
				}
				return table.Render()
			})
		},
	}
}

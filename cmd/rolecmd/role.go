// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package rolecmd

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/cmd/flags"
	"github.com/luxfi/launchpad/pkg/access"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app       *application.Launchpad
	callerKey string
)

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "role",
		Short: "Grant and revoke operator roles",
		Long: `Brokers manage pools, tiers, draws, settlement and project registration.
Admins grant and revoke roles. The operator key holds both in a fresh state.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	cmd.AddCommand(newChangeCmd("grant", "Grant a role to an address", (*access.Roles).Grant))
	cmd.AddCommand(newChangeCmd("revoke", "Revoke a role from an address", (*access.Roles).Revoke))
	cmd.AddCommand(newListCmd())
	return cmd
}

type change func(r *access.Roles, caller common.Address, role access.Role, account common.Address) error

func newChangeCmd(use, short string, apply change) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <admin|broker> <address>",
		Short: short,
		Args:  cobrautils.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			role, err := flags.ParseRole(args[0])
			if err != nil {
				return err
			}
			account, err := cobrautils.ParseAddress("address", args[1])
			if err != nil {
				return err
			}
			caller, err := app.GetKey(callerKey)
			if err != nil {
				return err
			}
			return app.Update(func(e *application.Engine) error {
				if err := apply(e.Roles, caller.Address(), role, account); err != nil {
					return err
				}
				ux.Logger.GreenCheckmarkToUser("%s %s %s", use, role, account)
				return nil
			})
		},
	}
	flags.AddCallerFlagToCmd(cmd, &callerKey)
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List role members",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return app.View(func(e *application.Engine) error {
				table := ux.NewTable("Role", "Account")
				for _, role := range []access.Role{access.AdminRole, access.BrokerRole} {
					for _, member := range e.Roles.Members(role) {
						table.AppendRow(string(role), member.Hex())
					}
				}
				return table.Render()
			})
		},
	}
}

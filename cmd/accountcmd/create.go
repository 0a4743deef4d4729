// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var salt uint64

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <key-name>",
		Short: "Create a smart account owned by a key",
		Args:  cobrautils.ExactArgs(1),
		RunE:  runCreate,
	}
	cmd.Flags().Uint64Var(&salt, "salt", 0, "salt for the account address")
	return cmd
}

func runCreate(_ *cobra.Command, args []string) error {
	owner, err := app.GetKey(args[0])
	if err != nil {
		return err
	}
	return app.Update(func(e *application.Engine) error {
		acc, err := e.Accounts.Create(owner.Address(), salt)
		if err != nil {
			return err
		}
		ux.Logger.GreenCheckmarkToUser("Account %s created", acc.Address())
		ux.Logger.PrintToUser("Owner: %s (%s)", owner.Address(), args[0])
		return nil
	})
}

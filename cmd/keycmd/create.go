// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package keycmd

import (
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new signing key",
		Long: `Create a new secp256k1 key and store it hex encoded under the key directory.

Examples:
  launchpad key create operator
  launchpad key create alice`,
		Args: cobrautils.ExactArgs(1),
		RunE: runCreate,
	}
}

func runCreate(_ *cobra.Command, args []string) error {
	k, err := app.CreateKey(args[0])
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Key %q created", args[0])
	ux.Logger.PrintToUser("Address: %s", k.Address())
	ux.Logger.PrintToUser("Path:    %s", app.GetKeyPath(args[0]))
	return nil
}

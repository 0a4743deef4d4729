// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package keycmd

import (
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var app *application.Launchpad

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Create and manage signing keys",
		Long: `The key command suite creates and lists the secp256k1 keys launchpad signs
with. The key named "operator" holds the admin and broker roles of a fresh state.
Other keys own participant accounts and sign their pledge permits.

These keys are stored unencrypted. Do not use them with real funds.`,
		RunE: cobrautils.CommandSuiteUsage,
	}

	// launchpad key create
	cmd.AddCommand(newCreateCmd())

	// launchpad key list
	cmd.AddCommand(newListCmd())

	return cmd
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package merklecmd

import (
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var app *application.Launchpad

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "merkle",
		Short: "Build claim trees for the distributor",
		Long: `The distributor stores only a merkle root per project. The merkle command
builds the tree from a list of entitlements and writes every participant's proof to a
claims file that the distributor commands read.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newProofCmd())
	return cmd
}

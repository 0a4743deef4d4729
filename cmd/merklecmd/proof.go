// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package merklecmd

import (
	"strconv"

	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/merkle"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var claimsFile string

func newProofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof <account>",
		Short: "Print an account's entitlement and proof",
		Args:  cobrautils.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			acc, err := cobrautils.ParseAddress("account", args[0])
			if err != nil {
				return err
			}
			claims, err := merkle.LoadClaimSet(claimsFile)
			if err != nil {
				return err
			}
			c, err := claims.Find(acc)
			if err != nil {
				return err
			}
			ux.Logger.PrintToUser("Project: %s", c.ProjectID)
			ux.Logger.PrintToUser("Amount:  %s", c.Amount)
			ux.Logger.PrintToUser("Leaf:    %s", c.Leaf)
			ux.Logger.PrintToUser("Root:    %s", claims.Root)
			table := ux.NewTable("#", "Proof")
			for i, h := range c.Proof {
				table.AppendRow(strconv.Itoa(i), h.Hex())
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&claimsFile, "claims", "claims.json", "claims file written by merkle build")
	return cmd
}

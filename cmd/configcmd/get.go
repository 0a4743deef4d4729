// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"fmt"

	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get the effective value of a setting.

Examples:
  launchpad config get chain-id
  launchpad config get cycle-length`,
		Args: cobrautils.ExactArgs(1),
		RunE: runGet,
	}
}

func runGet(_ *cobra.Command, args []string) error {
	key := args[0]
	if !knownKey(key) {
		return fmt.Errorf("unknown setting %q", key)
	}
	ux.Logger.PrintToUser("%s = %s", key, app.Conf.GetConfigStringValue(key))
	return nil
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"slices"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/spf13/cobra"
)

var app *application.Launchpad

// keys are the settings the config commands read and write.
var keys = []string{
	constants.ConfigChainIDKey,
	constants.ConfigRegistryAddressKey,
	constants.ConfigTreasuryKey,
	constants.ConfigCurrencyKey,
	constants.ConfigGovernanceTokenKey,
	constants.ConfigMinimumStakeKey,
	constants.ConfigCustodyKey,
	constants.ConfigCoordinatorKey,
	constants.ConfigKeyHashKey,
	constants.ConfigSubscriptionIDKey,
	constants.ConfigConfirmationsKey,
	constants.ConfigWordsPerWinnerKey,
	constants.ConfigCallbackGasLimitKey,
	constants.ConfigCycleLengthKey,
	constants.ConfigVRFSeedKey,
	constants.ConfigStateFileKey,
	constants.ConfigFactsDBKey,
	constants.ConfigFactsEnabledKey,
	constants.ConfigListenAddrKey,
}

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change launchpad settings",
		Long: `Settings come from flags, LAUNCHPAD_* environment variables, the config file
and built-in defaults, in that order.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func knownKey(key string) bool {
	return slices.Contains(keys, key)
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"fmt"

	"github.com/luxfi/launchpad/pkg/cobrautils"
	"github.com/luxfi/launchpad/pkg/config"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Write a setting to the config file. The value is checked against the other
settings before anything is written.

Examples:
  launchpad config set cycle-length 720h
  launchpad config set facts-enabled false`,
		Args: cobrautils.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if !knownKey(key) {
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := validate(app.Conf, key, value); err != nil {
		return err
	}
	if err := app.Conf.SetConfigValue(key, value); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	ux.Logger.GreenCheckmarkToUser("%s = %s", key, value)
	return nil
}

// validate parses every setting as it would be with key set to value.
func validate(conf *config.Config, key, value string) error {
	probe := viper.New()
	if err := probe.MergeConfigMap(conf.AllSettings()); err != nil {
		return err
	}
	probe.Set(key, value)
	_, err := config.NewWithViper(probe).Settings()
	return err
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	if path := app.Conf.GetConfigPath(); path != "" {
		ux.Logger.PrintToUser("Config file: %s", path)
	}
	table := ux.NewTable("Key", "Value", "Set")
	for _, key := range keys {
		set := ""
		if app.Conf.ConfigValueIsSet(key) {
			set = "yes"
		}
		table.AppendRow(key, app.Conf.GetConfigStringValue(key), set)
	}
	return table.Render()
}

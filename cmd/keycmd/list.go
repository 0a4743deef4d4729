// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package keycmd

import (
	"os"
	"slices"
	"strings"

	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys and their addresses",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	entries, err := os.ReadDir(app.GetKeyDir())
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), constants.KeySuffix) {
			names = append(names, strings.TrimSuffix(e.Name(), constants.KeySuffix))
		}
	}
	slices.Sort(names)
	if len(names) == 0 {
		ux.Logger.PrintToUser("No keys found. Create one with 'launchpad key create <name>'")
		return nil
	}

	table := ux.NewTable("Name", "Address")
	for _, name := range names {
		k, err := app.GetKey(name)
		if err != nil {
			app.Log.Warn("skipping unreadable key", zap.String("name", name), zap.Error(err))
			continue
		}
		table.AppendRow(name, k.Address().Hex())
	}
	return table.Render()
}

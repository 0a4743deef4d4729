// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package resetcmd

import (
	"os"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/safety"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app   *application.Launchpad
	force bool
)

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove all pools, projects, balances and facts",
		Long: `Remove the local engine state and fact log so the next command starts from an
empty registry. Keys and the config file are kept. Without --force the files are
only listed.`,
		Args: cobra.NoArgs,
		RunE: runReset,
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove the files")
	return cmd
}

func runReset(_ *cobra.Command, _ []string) error {
	settings, err := app.Conf.Settings()
	if err != nil {
		return err
	}
	policy := safety.ResetPolicy(safety.Paths{
		BaseDir:    app.GetBaseDir(),
		KeyDir:     app.GetKeyDir(),
		LogDir:     app.GetLogDir(),
		ConfigFile: app.Conf.GetConfigPath(),
		StateFile:  settings.StateFile,
		FactsDB:    settings.FactsDB,
	})
	targets := []string{
		settings.StateFile,
		settings.FactsDB,
		settings.FactsDB + "-wal",
		settings.FactsDB + "-shm",
	}
	for _, target := range targets {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			continue
		}
		if !force {
			ux.Logger.PrintToUser("would remove %s", target)
			continue
		}
		if err := safety.RemoveAll(policy, target); err != nil {
			return err
		}
		ux.Logger.PrintToUser("removed %s", target)
	}
	if force {
		ux.Logger.GreenCheckmarkToUser("Local state reset")
	} else {
		ux.Logger.PrintToUser("Run again with --force to remove these files")
	}
	return nil
}

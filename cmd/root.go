// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/luxfi/filesystem/perms"
	"github.com/luxfi/launchpad/cmd/accountcmd"
	"github.com/luxfi/launchpad/cmd/configcmd"
	"github.com/luxfi/launchpad/cmd/distributorcmd"
	"github.com/luxfi/launchpad/cmd/keycmd"
	"github.com/luxfi/launchpad/cmd/merklecmd"
	"github.com/luxfi/launchpad/cmd/poolcmd"
	"github.com/luxfi/launchpad/cmd/resetcmd"
	"github.com/luxfi/launchpad/cmd/rolecmd"
	"github.com/luxfi/launchpad/cmd/servecmd"
	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/config"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/luxfi/launchpad/pkg/ux"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const logName = "launchpad"

var (
	app        *application.Launchpad
	logFactory luxlog.Factory

	logLevel string
	Version  = "0.3.0"
	cfgFile  string
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "launchpad",
		Long: `Launchpad - operate token sale pools and vesting distributions.

Participants pledge into a pool during its pledging window. After the window
closes the operator runs a draw: tiers are filled in priority order from a
verifiable random draw, winners keep their pledge and losers are refunded.
Winners then claim their project tokens from the distributor, one vesting
cycle at a time, with a merkle proof of their entitlement.

COMMAND OVERVIEW:

  key          Operator and participant signing keys
  account      Smart accounts and local token balances
  role         Grant and revoke operator roles
  pool         Pool lifecycle (add/pledge/tier/draw/fulfill/settle)
  merkle       Build entitlement trees and proofs
  distributor  Project vesting (register/fund/claim/status)
  serve        Read-only HTTP API
  config       Read and change settings
  reset        Remove local state, keeping keys

QUICK START:

  launchpad key create operator
  launchpad pool add pool.yaml
  launchpad pool describe 0

For detailed command help, use: launchpad <command> --help`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.launchpad/launchpad.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level for the application")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Show only errors (quiet mode)")

	rootCmd.AddCommand(keycmd.NewCmd(app))
	rootCmd.AddCommand(accountcmd.NewCmd(app))
	rootCmd.AddCommand(rolecmd.NewCmd(app))
	rootCmd.AddCommand(poolcmd.NewCmd(app))
	rootCmd.AddCommand(merklecmd.NewCmd(app))
	rootCmd.AddCommand(distributorcmd.NewCmd(app))
	rootCmd.AddCommand(servecmd.NewCmd(app))
	rootCmd.AddCommand(configcmd.NewCmd(app))
	rootCmd.AddCommand(resetcmd.NewCmd(app))

	return rootCmd
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}

	if lvl, ok := logLevelFromFlags(cmd); ok {
		logFactory.SetLogLevel(logName, lvl)
		logFactory.SetDisplayLevel(logName, lvl)
	}

	cf := config.New()
	app.Setup(baseDir, log, cf)
	initConfig(baseDir, cf)
	return nil
}

// logLevelFromFlags picks the level asked for on the command line. --debug wins
// over --verbose, which wins over --quiet and --log-level.
func logLevelFromFlags(cmd *cobra.Command) (luxlog.Level, bool) {
	switch {
	case cmd.Flags().Changed("debug"):
		return luxlog.Level(level.Debug), true
	case cmd.Flags().Changed("verbose"):
		return luxlog.Level(level.Info), true
	case cmd.Flags().Changed("quiet"):
		return luxlog.Level(level.Error), true
	case logLevel != "":
		lvl, err := luxlog.ToLevel(logLevel)
		return lvl, err == nil
	}
	return 0, false
}

func setupEnv() (string, error) {
	baseDir := os.Getenv(constants.BaseDirEnvVar)
	if baseDir == "" {
		usr, err := user.Current()
		if err != nil {
			// no logger here yet
			fmt.Printf("unable to get system user %s\n", err)
			return "", err
		}
		baseDir = filepath.Join(usr.HomeDir, constants.BaseDirName)
	}

	if err := os.MkdirAll(baseDir, constants.DefaultPerms755); err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}

	keyDir := filepath.Join(baseDir, constants.KeyDir)
	if err := os.MkdirAll(keyDir, perms.ReadWriteExecute); err != nil {
		fmt.Printf("failed creating the key dir %s: %s\n", keyDir, err)
		return "", err
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (luxlog.Logger, error) {
	config := luxlog.Config{}
	config.LogLevel = luxlog.Level(level.Info)

	// Set default display level to WARN (quiet by default)
	config.DisplayLevel, _ = luxlog.ToLevel("WARN")

	config.Directory = filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(config.Directory, perms.ReadWriteExecute); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	config.LogFormat = luxlog.Colors
	config.MaxSize = constants.MaxLogFileSize
	config.MaxFiles = constants.MaxNumOfLogFiles
	config.MaxAge = constants.RetainOldFiles

	// Register ux package as internal so caller tracking shows actual source, not the wrapper
	luxlog.RegisterInternalPackages("github.com/luxfi/launchpad/pkg/ux")

	factory := luxlog.NewFactoryWithConfig(config)
	log, err := factory.Make(logName)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	// Store factory globally so we can adjust levels later
	logFactory = factory
	// create the user facing logger as a global var
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig(baseDir string, cf *config.Config) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(baseDir)
		viper.SetConfigType(constants.DefaultConfigFileType)
		viper.SetConfigName(constants.DefaultConfigFileName) // launchpad.yaml
	}
	cf.SetDefaults(baseDir)

	// LAUNCHPAD_MINIMUM_STAKE -> minimum-stake, etc.
	viper.SetEnvPrefix("launchpad")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		app.Log.Debug("using config file", zap.String("config-file", viper.ConfigFileUsed()))
	}
	// No config file is normal, so we silently continue
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}

// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755        = 0o755
	WriteReadReadPerms     = 0o644
	WriteReadUserOnlyPerms = 0o600

	BaseDirName = ".launchpad"
	LogDir      = "logs"
	KeyDir      = "key"
	KeySuffix   = ".pk"

	StateFileName = "state.json"
	FactsDBName   = "facts.db"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	DefaultConfigFileName = "launchpad"
	DefaultConfigFileType = "yaml"

	// OperatorKeyName is the key the operator signs pool management with.
	OperatorKeyName = "operator"

	DefaultChainID          = 421614
	DefaultCallbackGasLimit = 2_500_000
	DefaultConfirmations    = 3
	DefaultListenAddr       = "127.0.0.1:8480"
	DefaultCycleLength      = 30 * 24 * time.Hour

	APIReadHeaderTimeout = 5 * time.Second
	APIShutdownTimeout   = 10 * time.Second

	TimeParseLayout = time.RFC3339

	// Environment variables
	BaseDirEnvVar = "LAUNCHPAD_HOME"
)

// Config keys
const (
	ConfigChainIDKey          = "chain-id"
	ConfigRegistryAddressKey  = "registry-address"
	ConfigTreasuryKey         = "treasury"
	ConfigCurrencyKey         = "currency"
	ConfigGovernanceTokenKey  = "governance-token"
	ConfigMinimumStakeKey     = "minimum-stake"
	ConfigCustodyKey          = "distributor-custody"
	ConfigCoordinatorKey      = "coordinator"
	ConfigKeyHashKey          = "key-hash"
	ConfigSubscriptionIDKey   = "subscription-id"
	ConfigConfirmationsKey    = "confirmations"
	ConfigWordsPerWinnerKey   = "words-per-winner"
	ConfigCycleLengthKey      = "cycle-length"
	ConfigVRFSeedKey          = "vrf-seed"
	ConfigStateFileKey        = "state-file"
	ConfigFactsDBKey          = "facts-db"
	ConfigFactsEnabledKey     = "facts-enabled"
	ConfigListenAddrKey       = "listen"
	ConfigCallbackGasLimitKey = "callback-gas-limit"
)

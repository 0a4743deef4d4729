// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"math/big"
	"path/filepath"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/crypto"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/spf13/viper"
)

// Settings is the typed view of the launchpad configuration.
type Settings struct {
	ChainID          *big.Int
	RegistryAddress  common.Address
	Treasury         common.Address
	Currency         common.Address
	GovernanceToken  common.Address
	MinimumStake     *big.Int
	Custody          common.Address
	Coordinator      common.Address
	KeyHash          common.Hash
	SubscriptionID   uint64
	Confirmations    uint16
	WordsPerWinner   uint32
	CallbackGasLimit uint32
	CycleLength      time.Duration
	VRFSeed          common.Hash
	StateFile        string
	FactsDB          string
	FactsEnabled     bool
	ListenAddr       string
}

type Config struct {
	v *viper.Viper
}

// New wraps the global viper instance the root command reads into.
func New() *Config {
	return &Config{v: viper.GetViper()}
}

func NewWithViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// WellKnownAddress derives the default address of a local contract.
func WellKnownAddress(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("launchpad/" + name))[12:])
}

// SetDefaults fills in a local sandbox rooted at baseDir.
func (c *Config) SetDefaults(baseDir string) {
	registry := WellKnownAddress("registry")
	c.v.SetDefault(constants.ConfigChainIDKey, constants.DefaultChainID)
	c.v.SetDefault(constants.ConfigRegistryAddressKey, registry.Hex())
	c.v.SetDefault(constants.ConfigTreasuryKey, registry.Hex())
	c.v.SetDefault(constants.ConfigCurrencyKey, WellKnownAddress("currency").Hex())
	c.v.SetDefault(constants.ConfigGovernanceTokenKey, WellKnownAddress("governance").Hex())
	c.v.SetDefault(constants.ConfigMinimumStakeKey, "0")
	c.v.SetDefault(constants.ConfigCustodyKey, WellKnownAddress("distributor").Hex())
	c.v.SetDefault(constants.ConfigCoordinatorKey, WellKnownAddress("coordinator").Hex())
	c.v.SetDefault(constants.ConfigKeyHashKey, common.Hash{}.Hex())
	c.v.SetDefault(constants.ConfigSubscriptionIDKey, 0)
	c.v.SetDefault(constants.ConfigConfirmationsKey, constants.DefaultConfirmations)
	c.v.SetDefault(constants.ConfigWordsPerWinnerKey, 1)
	c.v.SetDefault(constants.ConfigCallbackGasLimitKey, constants.DefaultCallbackGasLimit)
	c.v.SetDefault(constants.ConfigCycleLengthKey, constants.DefaultCycleLength)
	c.v.SetDefault(constants.ConfigVRFSeedKey, "")
	c.v.SetDefault(constants.ConfigStateFileKey, filepath.Join(baseDir, constants.StateFileName))
	c.v.SetDefault(constants.ConfigFactsDBKey, filepath.Join(baseDir, constants.FactsDBName))
	c.v.SetDefault(constants.ConfigFactsEnabledKey, true)
	c.v.SetDefault(constants.ConfigListenAddrKey, constants.DefaultListenAddr)
}

// Settings parses every key. Addresses must be hex and amounts base-10.
func (c *Config) Settings() (Settings, error) {
	s := Settings{
		SubscriptionID:   c.v.GetUint64(constants.ConfigSubscriptionIDKey),
		Confirmations:    c.v.GetUint16(constants.ConfigConfirmationsKey),
		WordsPerWinner:   c.v.GetUint32(constants.ConfigWordsPerWinnerKey),
		CallbackGasLimit: c.v.GetUint32(constants.ConfigCallbackGasLimitKey),
		CycleLength:      c.v.GetDuration(constants.ConfigCycleLengthKey),
		StateFile:        c.v.GetString(constants.ConfigStateFileKey),
		FactsDB:          c.v.GetString(constants.ConfigFactsDBKey),
		FactsEnabled:     c.v.GetBool(constants.ConfigFactsEnabledKey),
		ListenAddr:       c.v.GetString(constants.ConfigListenAddrKey),
	}
	var err error
	if s.ChainID, err = c.bigInt(constants.ConfigChainIDKey); err != nil {
		return Settings{}, err
	}
	if s.MinimumStake, err = c.bigInt(constants.ConfigMinimumStakeKey); err != nil {
		return Settings{}, err
	}
	addresses := []struct {
		key string
		dst *common.Address
	}{
		{constants.ConfigRegistryAddressKey, &s.RegistryAddress},
		{constants.ConfigTreasuryKey, &s.Treasury},
		{constants.ConfigCurrencyKey, &s.Currency},
		{constants.ConfigGovernanceTokenKey, &s.GovernanceToken},
		{constants.ConfigCustodyKey, &s.Custody},
		{constants.ConfigCoordinatorKey, &s.Coordinator},
	}
	for _, a := range addresses {
		if *a.dst, err = c.address(a.key); err != nil {
			return Settings{}, err
		}
	}
	if s.KeyHash, err = c.hash(constants.ConfigKeyHashKey); err != nil {
		return Settings{}, err
	}
	if s.VRFSeed, err = c.hash(constants.ConfigVRFSeedKey); err != nil {
		return Settings{}, err
	}
	if s.CycleLength <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive", constants.ConfigCycleLengthKey)
	}
	return s, nil
}

func (c *Config) bigInt(key string) (*big.Int, error) {
	raw := c.v.GetString(key)
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%s: %q is not a non-negative integer", key, raw)
	}
	return v, nil
}

func (c *Config) address(key string) (common.Address, error) {
	raw := c.v.GetString(key)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s: %w %q", key, constants.ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}

// hash accepts an empty value as the zero hash.
func (c *Config) hash(key string) (common.Hash, error) {
	raw := c.v.GetString(key)
	if raw == "" {
		return common.Hash{}, nil
	}
	b, err := hexutil.Decode(raw)
	if err != nil || len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("%s: %q is not a 32 byte hex value", key, raw)
	}
	return common.BytesToHash(b), nil
}

func (c *Config) GetConfigStringValue(key string) string {
	return c.v.GetString(key)
}

func (c *Config) ConfigValueIsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *Config) ConfigFileExists() bool {
	return c.v.ConfigFileUsed() != ""
}

// SetConfigValue persists key to the config file in use.
func (c *Config) SetConfigValue(key string, value interface{}) error {
	c.v.Set(key, value)
	if c.ConfigFileExists() {
		return c.v.WriteConfig()
	}
	return c.v.SafeWriteConfig()
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}

// AllSettings lists every known key with its effective value.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}

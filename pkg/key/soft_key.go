// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package key stores the secp256k1 keys that own launchpad accounts and sign
// operator calls.
package key

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/crypto/cb58"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/launchpad/pkg/constants"
)

var (
	ErrInvalidPrivateKey         = errors.New("invalid private key")
	ErrInvalidPrivateKeyLen      = errors.New("invalid private key length (expect 64 bytes in hex)")
	ErrInvalidPrivateKeyEnding   = errors.New("invalid private key ending")
	ErrInvalidPrivateKeyEncoding = errors.New("invalid private key encoding")
)

const (
	privKeyEncPfx = "PrivateKey-"
	privKeySize   = 64
	// a key file may end in one "\n" or "\r\n"
	maxLineEnding = 2
)

// SoftKey is a key held in memory and stored as a hex file.
type SoftKey struct {
	privKey *ecdsa.PrivateKey
	address common.Address
}

type softOptions struct {
	privKey *ecdsa.PrivateKey
	encoded string
}

type SoftOption func(*softOptions)

func WithPrivateKey(privKey *ecdsa.PrivateKey) SoftOption {
	return func(o *softOptions) { o.privKey = privKey }
}

// WithPrivateKeyEncoded takes the "PrivateKey-" CB58 form.
func WithPrivateKeyEncoded(encoded string) SoftOption {
	return func(o *softOptions) { o.encoded = encoded }
}

// NewSoft generates a fresh key unless an option supplies one. When both options
// are given they must agree.
func NewSoft(opts ...SoftOption) (*SoftKey, error) {
	o := &softOptions{}
	for _, opt := range opts {
		opt(o)
	}
	privKey := o.privKey
	if o.encoded != "" {
		decoded, err := decodePrivateKey(o.encoded)
		if err != nil {
			return nil, err
		}
		if privKey != nil && !privKey.Equal(decoded) {
			return nil, ErrInvalidPrivateKey
		}
		privKey = decoded
	}
	if privKey == nil {
		var err error
		if privKey, err = crypto.GenerateKey(); err != nil {
			return nil, err
		}
	}
	return &SoftKey{
		privKey: privKey,
		address: common.Address(crypto.PubkeyToAddress(privKey.PublicKey)),
	}, nil
}

// LoadSoft reads a key file holding the hex or the CB58 form.
func LoadSoft(keyPath string) (*SoftKey, error) {
	data, err := os.ReadFile(keyPath) //nolint:gosec // G304: Reading user-specified key file
	if err != nil {
		return nil, err
	}
	privKey, err := parseKeyFile(string(data))
	if err != nil {
		return nil, err
	}
	return NewSoft(WithPrivateKey(privKey))
}

func parseKeyFile(content string) (*ecdsa.PrivateKey, error) {
	body := strings.TrimRight(content, "\r\n")
	if len(content)-len(body) > maxLineEnding {
		return nil, ErrInvalidPrivateKeyEnding
	}
	if strings.HasPrefix(body, privKeyEncPfx) {
		return decodePrivateKey(body)
	}
	body = strings.TrimPrefix(body, "0x")
	switch {
	case len(body) < privKeySize:
		return nil, ErrInvalidPrivateKeyLen
	case len(body) > privKeySize:
		return nil, ErrInvalidPrivateKeyEnding
	}
	raw, err := hex.DecodeString(body)
	if err != nil {
		return nil, ErrInvalidPrivateKeyEncoding
	}
	privKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return privKey, nil
}

func decodePrivateKey(enc string) (*ecdsa.PrivateKey, error) {
	raw, err := cb58.Decode(strings.TrimPrefix(enc, privKeyEncPfx))
	if err != nil {
		return nil, ErrInvalidPrivateKeyEncoding
	}
	privKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return privKey, nil
}

func (m *SoftKey) Key() *ecdsa.PrivateKey {
	return m.privKey
}

// Address is the owner address the key controls.
func (m *SoftKey) Address() common.Address {
	return m.address
}

func (m *SoftKey) PrivKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(m.privKey))
}

// Encode returns the CB58 form with the "PrivateKey-" prefix.
func (m *SoftKey) Encode() (string, error) {
	enc, err := cb58.Encode(crypto.FromECDSA(m.privKey))
	if err != nil {
		return "", err
	}
	return privKeyEncPfx + enc, nil
}

// Save writes the hex form, readable by the owner only.
func (m *SoftKey) Save(p string) error {
	return os.WriteFile(p, []byte(m.PrivKeyHex()), constants.WriteReadUserOnlyPerms)
}

// Path is where the named key lives under keyDir.
func Path(keyDir, name string) string {
	return filepath.Join(keyDir, name+constants.KeySuffix)
}

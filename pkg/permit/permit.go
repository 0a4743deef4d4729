// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package permit builds and checks EIP-712 currency permits.
//
// A permit lets a spender move value of a currency out of a smart account. The signed
// struct is
//
//	Permit(address currency,address spender,uint256 value,uint256 nonce,uint256 deadline)
//
// under the domain {name, version, chainId, verifyingContract} where verifyingContract
// is the account that holds the funds.
package permit

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	"github.com/luxfi/launchpad/pkg/fault"
)

const (
	SignatureLength = 65

	AccountDomainName    = "BionicAccount"
	AccountDomainVersion = "1"
)

var (
	ErrPermitExpired    = fault.New(fault.KindAuthorization, "PermitExpired")
	ErrInvalidSignature = fault.New(fault.KindAuthorization, "InvalidSignature")
)

var (
	DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	PermitTypeHash = crypto.Keccak256Hash([]byte(
		"Permit(address currency,address spender,uint256 value,uint256 nonce,uint256 deadline)"))

	// MaxDeadline never expires.
	MaxDeadline = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	domainArgs = abi.Arguments{
		{Type: mustType("bytes32")},
		{Type: mustType("bytes32")},
		{Type: mustType("bytes32")},
		{Type: mustType("uint256")},
		{Type: mustType("address")},
	}
	permitArgs = abi.Arguments{
		{Type: mustType("bytes32")},
		{Type: mustType("address")},
		{Type: mustType("address")},
		{Type: mustType("uint256")},
		{Type: mustType("uint256")},
		{Type: mustType("uint256")},
	}
)

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Domain is the EIP-712 signing domain.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// AccountDomain is the domain a smart account signs its permits under.
func AccountDomain(chainID *big.Int, account common.Address) Domain {
	return Domain{
		Name:              AccountDomainName,
		Version:           AccountDomainVersion,
		ChainID:           chainID,
		VerifyingContract: account,
	}
}

// Separator returns the domain separator hash.
func (d Domain) Separator() (common.Hash, error) {
	chainID := d.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	packed, err := domainArgs.Pack(
		[32]byte(DomainTypeHash),
		[32]byte(crypto.Keccak256Hash([]byte(d.Name))),
		[32]byte(crypto.Keccak256Hash([]byte(d.Version))),
		chainID,
		d.VerifyingContract,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode permit domain: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

// Permit is the signed message.
type Permit struct {
	Currency common.Address
	Spender  common.Address
	Value    *big.Int
	Nonce    *big.Int
	Deadline *big.Int
}

// StructHash returns hashStruct(permit).
func (p Permit) StructHash() (common.Hash, error) {
	packed, err := permitArgs.Pack(
		[32]byte(PermitTypeHash),
		p.Currency,
		p.Spender,
		orZero(p.Value),
		orZero(p.Nonce),
		orZero(p.Deadline),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode permit: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

// Digest returns keccak256("\x19\x01" ‖ domainSeparator ‖ structHash).
func Digest(d Domain, p Permit) (common.Hash, error) {
	sep, err := d.Separator()
	if err != nil {
		return common.Hash{}, err
	}
	sh, err := p.StructHash()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, sep[:], sh[:]), nil
}

// Sign produces a 65 byte [R ‖ S ‖ V] signature with V in {27, 28}.
func Sign(key *ecdsa.PrivateKey, d Domain, p Permit) ([]byte, error) {
	digest, err := Digest(d, p)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign permit: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Recover returns the address that signed p under d.
func Recover(d Domain, p Permit, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	digest, err := Digest(d, p)
	if err != nil {
		return common.Address{}, err
	}
	rsv := make([]byte, SignatureLength)
	copy(rsv, sig)
	if rsv[crypto.RecoveryIDOffset] >= 27 {
		rsv[crypto.RecoveryIDOffset] -= 27
	}
	r := new(big.Int).SetBytes(rsv[:32])
	s := new(big.Int).SetBytes(rsv[32:64])
	if !crypto.ValidateSignatureValues(rsv[crypto.RecoveryIDOffset], r, s, true) {
		return common.Address{}, fmt.Errorf("%w: malformed values", ErrInvalidSignature)
	}
	pub, err := crypto.SigToPub(digest[:], rsv)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Check verifies that sig is signer's permit p under d and that it has not expired at now.
func Check(d Domain, p Permit, sig []byte, signer common.Address, now time.Time) error {
	if Expired(p.Deadline, now) {
		return fmt.Errorf("%w: deadline %v", ErrPermitExpired, p.Deadline)
	}
	got, err := Recover(d, p, sig)
	if err != nil {
		return err
	}
	if got != signer {
		return fmt.Errorf("%w: signed by %s, expected %s", ErrInvalidSignature, got.Hex(), signer.Hex())
	}
	return nil
}

// Expired reports whether deadline (unix seconds) lies before now.
func Expired(deadline *big.Int, now time.Time) bool {
	return orZero(deadline).Cmp(big.NewInt(now.Unix())) < 0
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

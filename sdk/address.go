package sdk

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidAddress is returned by ParseAddress for anything that is not 20 bytes of hex.
var ErrInvalidAddress = errors.New("invalid address")

// Address is the checksummed hex form (0xAbC...) of an account or contract.
type Address string

// ZeroAddress is the null account, never a valid sender or receiver.
var ZeroAddress = Address(common.Address{}.Hex())

// ParseAddress validates the hex input and returns the canonical checksummed form,
// so two spellings of the same account always land on the same storage keys.
// Example payload: sdk.ParseAddress("0x52908400098527886e0f7030069857d2e4169ee7")
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", ErrInvalidAddress
	}
	return Address(common.HexToAddress(s).Hex()), nil
}

// MustAddress is ParseAddress for constants and tests, panics on bad input.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromCommon wraps a go-ethereum address.
func AddressFromCommon(a common.Address) Address {
	return Address(a.Hex())
}

// ContractAddress derives the address a contract deployed by deployer at nonce would get.
// The DAO uses it to give the treasury a stable default.
func ContractAddress(deployer Address, nonce uint64) Address {
	return AddressFromCommon(crypto.CreateAddress(deployer.Common(), nonce))
}

// String returns the literal representation of the address.
func (a Address) String() string {
	return string(a)
}

// Common converts back into the go-ethereum type.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}

// Bytes returns the raw 20 bytes, used for compact storage keys.
func (a Address) Bytes() []byte {
	return a.Common().Bytes()
}

// IsZero reports whether this is the null address (or empty).
func (a Address) IsZero() bool {
	return a == "" || a.Common() == (common.Address{})
}

// IsValid is a light sanity check used before an address hits state.
func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

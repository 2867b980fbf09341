package sdk

import (
	"fmt"
	"strings"
)

type Asset string

const (
	// AssetTL is the funding token, 18 decimals.
	AssetTL Asset = "tl"
	// AssetMyGov is the membership token, whole units only.
	AssetMyGov Asset = "mygov"
)

// String returns the raw ticker string for logging or keys.
// Example payload: sdk.AssetTL.String()
func (a Asset) String() string {
	return string(a)
}

// Decimals reports the fixed point precision of the asset.
func (a Asset) Decimals() uint8 {
	if a == AssetTL {
		return 18
	}
	return 0
}

// Byte is the one byte tag used inside storage keys.
func (a Asset) Byte() byte {
	switch a {
	case AssetTL:
		return 0x01
	case AssetMyGov:
		return 0x02
	default:
		return 0x00
	}
}

// IsValid keeps unknown tickers away from the ledger.
func (a Asset) IsValid() bool {
	return a == AssetTL || a == AssetMyGov
}

// ParseAsset accepts the ticker in any case.
// Example payload: sdk.ParseAsset("MyGov")
func ParseAsset(s string) (Asset, error) {
	a := Asset(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("unknown asset %q", s)
	}
	return a, nil
}

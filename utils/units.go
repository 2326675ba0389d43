package utils

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/unidonate/unidonate-vault/gerror"
)

const (
	// AssetDecimals is the fixed-point scale of the vault asset token (USDC)
	AssetDecimals int32 = 6
	// ShareDecimals is the fixed-point scale of the vault share token
	ShareDecimals int32 = 18
)

var plainDecimal = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)

// ParseUnits converts a human readable decimal string into its fixed-point integer
// representation with the given number of fractional digits. Extra fractional digits
// are truncated, never rounded.
func ParseUnits(text string, decimals int32) (*big.Int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, gerror.ErrEmptyAmount
	}
	if !plainDecimal.MatchString(s) || s == "." {
		return nil, errors.Wrapf(gerror.ErrInvalidAmount, "%q", text)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(gerror.ErrInvalidAmount, "%q: %v", text, err)
	}
	return d.Shift(decimals).BigInt(), nil
}

// ParsePositiveUnits is ParseUnits that also rejects amounts that scale to zero.
func ParsePositiveUnits(text string, decimals int32) (*big.Int, error) {
	v, err := ParseUnits(text, decimals)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, errors.Wrapf(gerror.ErrNonPositiveAmount, "%q", text)
	}
	return v, nil
}

// FormatUnits converts a fixed-point integer into an exact decimal in human units.
func FormatUnits(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

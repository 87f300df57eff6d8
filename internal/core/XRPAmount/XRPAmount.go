package XRPAmount

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// XRPAmount is a non-negative quantity of drops.
type XRPAmount uint64

const DropsPerXRP XRPAmount = 1_000_000

var (
	// ErrOverflow is returned when an addition exceeds the representable drop range
	ErrOverflow = errors.New("amount overflow")

	// ErrUnderflow is returned when a subtraction would go below zero
	ErrUnderflow = errors.New("amount underflow")

	// ErrInvalidAmount is returned when an amount string cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")
)

const Zero XRPAmount = 0

func NewXRPAmount(drops uint64) XRPAmount {
	return XRPAmount(drops)
}

func (x XRPAmount) Drops() uint64 {
	return uint64(x)
}

// Add returns x + other, or ErrOverflow.
func (x XRPAmount) Add(other XRPAmount) (XRPAmount, error) {
	if other > math.MaxUint64-x {
		return 0, fmt.Errorf("%w: %s + %s", ErrOverflow, x, other)
	}
	return x + other, nil
}

// Sub returns x - other, or ErrUnderflow.
func (x XRPAmount) Sub(other XRPAmount) (XRPAmount, error) {
	if other > x {
		return 0, fmt.Errorf("%w: %s - %s", ErrUnderflow, x, other)
	}
	return x - other, nil
}

// SaturatingSub returns x - other, clamped at zero.
func (x XRPAmount) SaturatingSub(other XRPAmount) XRPAmount {
	if other > x {
		return 0
	}
	return x - other
}

func (x XRPAmount) Min(other XRPAmount) XRPAmount {
	if other < x {
		return other
	}
	return x
}

func (x XRPAmount) IsPositive() bool {
	return x > 0
}

func (x XRPAmount) IsZero() bool {
	return x == 0
}

// Decimal returns the exact XRP value of x.
func (x XRPAmount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), -6)
}

func (x XRPAmount) String() string {
	return strconv.FormatUint(uint64(x), 10)
}

// ParseXRPAmount parses either a plain drop count ("1500") or a decimal XRP
// value with an "xrp" suffix ("1.5xrp").
func ParseXRPAmount(s string) (XRPAmount, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "xrp") {
		d, err := decimal.NewFromString(strings.TrimSpace(s[:len(s)-3]))
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
		}
		drops := d.Shift(6)
		if !drops.Equal(drops.Truncate(0)) || drops.IsNegative() {
			return 0, fmt.Errorf("%w: %q is not a whole number of drops", ErrInvalidAmount, s)
		}
		if drops.BigInt().BitLen() > 64 {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		return XRPAmount(drops.BigInt().Uint64()), nil
	}

	drops, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return XRPAmount(drops), nil
}

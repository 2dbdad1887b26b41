// Package balance converts operator-entered amounts into base units of the
// chain's native token.
package balance

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// ErrInvalidAmount is returned for amounts that are not numeric, use an unknown
// denomination, carry too many fractional digits or overflow 128 bits.
var ErrInvalidAmount = errors.New("invalid amount")

const maxBits = 128

// Balance is an amount in the smallest unit of the native token. It never exceeds 128 bits.
type Balance struct {
	v uint256.Int
}

// New returns a Balance holding x base units.
func New(x uint64) Balance {
	var b Balance
	b.v.SetUint64(x)
	return b
}

// FromBig converts a non-negative big.Int that fits in 128 bits.
func FromBig(x *big.Int) (Balance, error) {
	var b Balance
	if x == nil || x.Sign() < 0 {
		return b, fmt.Errorf("%w: negative or missing value", ErrInvalidAmount)
	}
	v, overflow := uint256.FromBig(x)
	if overflow || v.BitLen() > maxBits {
		return b, fmt.Errorf("%w: %s exceeds 128 bits", ErrInvalidAmount, x)
	}
	b.v = *v
	return b, nil
}

// ParseBalance parses a plain decimal integer of base units.
func ParseBalance(s string) (Balance, error) {
	var b Balance
	if err := b.v.SetFromDecimal(s); err != nil {
		return b, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, s)
	}
	if b.v.BitLen() > maxBits {
		return Balance{}, fmt.Errorf("%w: %s exceeds 128 bits", ErrInvalidAmount, s)
	}
	return b, nil
}

// Big returns the value as a new big.Int.
func (b Balance) Big() *big.Int { return b.v.ToBig() }

// IsZero reports whether b is zero.
func (b Balance) IsZero() bool { return b.v.IsZero() }

// Cmp compares b and o and returns -1, 0 or +1.
func (b Balance) Cmp(o Balance) int { return b.v.Cmp(&o.v) }

// Add returns b+o, failing when the sum leaves the 128-bit range.
func (b Balance) Add(o Balance) (Balance, error) {
	var sum Balance
	if _, overflow := sum.v.AddOverflow(&b.v, &o.v); overflow || sum.v.BitLen() > maxBits {
		return Balance{}, fmt.Errorf("%w: %s + %s overflows", ErrInvalidAmount, b, o)
	}
	return sum, nil
}

// Sub returns |b-o| and whether b was smaller than o.
func (b Balance) Sub(o Balance) (Balance, bool) {
	var diff Balance
	if b.Cmp(o) < 0 {
		diff.v.Sub(&o.v, &b.v)
		return diff, true
	}
	diff.v.Sub(&b.v, &o.v)
	return diff, false
}

func (b Balance) String() string { return b.v.Dec() }

// MarshalJSON encodes the balance as a bare JSON number so that 128-bit values survive.
func (b Balance) MarshalJSON() ([]byte, error) {
	return []byte(b.v.Dec()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (b *Balance) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseBalance(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

package balance

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultSymbol is used when the node does not advertise a token symbol.
const DefaultSymbol = "UNIT"

// TokenMetadata describes the native token: its ticker and the number of
// decimal places between one whole token and the base unit.
type TokenMetadata struct {
	Symbol   string
	Decimals uint8
}

// Format renders b as a whole-token decimal followed by the symbol, e.g. "1.5 UNIT".
func (m TokenMetadata) Format(b Balance) string {
	digits := b.String()
	if m.Decimals == 0 {
		return digits + " " + m.Symbol
	}
	d := int(m.Decimals)
	if len(digits) <= d {
		digits = strings.Repeat("0", d-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-d], strings.TrimRight(digits[len(digits)-d:], "0")
	if frac == "" {
		return whole + " " + m.Symbol
	}
	return whole + "." + frac + " " + m.Symbol
}

// metric prefixes accepted in front of the token symbol.
var prefixes = map[rune]int{
	'G': 9,
	'M': 6,
	'k': 3,
	'm': -3,
	'μ': -6,
	'u': -6,
	'n': -9,
	'p': -12,
}

// Amount is a balance as typed by the operator: either a raw integer of base
// units, or a decimal that must be denominated against TokenMetadata.
type Amount struct {
	input string

	raw    *Balance
	whole  string
	frac   string
	suffix string
}

// ParseAmount parses "1000", "1_000", "1.5", "1.5UNIT", "100mUNIT" or "2 kUNIT".
// Denomination suffixes are resolved later by Denominate once the token is known.
func ParseAmount(s string) (Amount, error) {
	a := Amount{input: s}
	clean := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if clean == "" {
		return a, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	end := 0
	for end < len(clean) && (clean[end] >= '0' && clean[end] <= '9' || clean[end] == '.') {
		end++
	}
	number, suffix := clean[:end], strings.TrimSpace(clean[end:])
	if number == "" {
		return a, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, s)
	}

	whole, frac, hasPoint := strings.Cut(number, ".")
	if whole == "" || strings.Contains(frac, ".") || (hasPoint && frac == "") {
		return a, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, s)
	}
	for _, r := range suffix {
		if !unicode.IsLetter(r) {
			return a, fmt.Errorf("%w: %q has an invalid denomination", ErrInvalidAmount, s)
		}
	}

	if !hasPoint && suffix == "" {
		b, err := ParseBalance(whole)
		if err != nil {
			return a, err
		}
		a.raw = &b
		return a, nil
	}

	a.whole, a.frac, a.suffix = whole, frac, suffix
	return a, nil
}

// IsRaw reports whether the amount was given in base units.
func (a Amount) IsRaw() bool { return a.raw != nil }

func (a Amount) String() string { return a.input }

// Denominate resolves the amount to base units. Decimal amounts are shifted by
// meta.Decimals (plus the metric prefix, if any) places.
func (a Amount) Denominate(meta TokenMetadata) (Balance, error) {
	if a.raw != nil {
		return *a.raw, nil
	}

	exp, err := a.exponent(meta)
	if err != nil {
		return Balance{}, err
	}
	if len(a.frac) > exp {
		return Balance{}, fmt.Errorf("%w: %q has more fractional digits than %s allows", ErrInvalidAmount, a.input, meta.Symbol)
	}

	var digits, scale, ten, pow Balance
	if err := digits.v.SetFromDecimal(a.whole + a.frac); err != nil {
		return Balance{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, a.input)
	}
	ten.v.SetUint64(10)
	pow.v.SetUint64(uint64(exp - len(a.frac)))
	scale.v.Exp(&ten.v, &pow.v)

	var out Balance
	if _, overflow := out.v.MulOverflow(&digits.v, &scale.v); overflow || out.v.BitLen() > maxBits {
		return Balance{}, fmt.Errorf("%w: %q exceeds 128 bits", ErrInvalidAmount, a.input)
	}
	return out, nil
}

// exponent returns the power of ten that turns one "whole" unit of the amount
// into base units.
func (a Amount) exponent(meta TokenMetadata) (int, error) {
	base := int(meta.Decimals)
	if a.suffix == "" || a.suffix == meta.Symbol {
		return base, nil
	}

	runes := []rune(a.suffix)
	shift, ok := prefixes[runes[0]]
	rest := string(runes[1:])
	if !ok || (rest != "" && rest != meta.Symbol) {
		return 0, fmt.Errorf("%w: unknown denomination %q for token %s", ErrInvalidAmount, a.suffix, meta.Symbol)
	}
	return base + shift, nil
}

package account

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// ErrInvalidAddress is returned for strings that are neither SS58 nor 32-byte hex account ids.
var ErrInvalidAddress = errors.New("invalid address")

var ss58Prefix = []byte("SS58PRE")

// AccountID is a 32-byte Substrate account identifier (an sr25519 public key or a contract address).
type AccountID [32]byte

// Hex returns the 0x-prefixed hex form.
func (a AccountID) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// SS58 encodes the account for the given network prefix.
func (a AccountID) SS58(prefix uint16) string {
	return EncodeSS58(prefix, a[:])
}

// EncodeSS58 encodes payload with the SS58 address format.
func EncodeSS58(prefix uint16, payload []byte) string {
	var data []byte
	if prefix < 64 {
		data = append(data, byte(prefix))
	} else {
		data = append(data,
			byte((prefix&0b1111_1100)>>2)|0b0100_0000,
			byte(prefix>>8)|byte((prefix&0b11)<<6),
		)
	}
	data = append(data, payload...)
	sum := ss58Checksum(data)
	data = append(data, sum[:2]...)
	return base58.Encode(data)
}

// ParseAccountID accepts an SS58 address (any network prefix) or a 0x-prefixed 32-byte hex string.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil || len(b) != len(id) {
			return id, fmt.Errorf("%w: %q is not a 32-byte hex account id", ErrInvalidAddress, s)
		}
		copy(id[:], b)
		return id, nil
	}

	_, payload, err := DecodeSS58(s)
	if err != nil {
		return id, err
	}
	if len(payload) != len(id) {
		return id, fmt.Errorf("%w: %q does not hold a 32-byte account id", ErrInvalidAddress, s)
	}
	copy(id[:], payload)
	return id, nil
}

// DecodeSS58 returns the network prefix and payload of an SS58 address after verifying its checksum.
func DecodeSS58(s string) (uint16, []byte, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %q is not base58: %v", ErrInvalidAddress, s, err)
	}
	if len(data) < 3 {
		return 0, nil, fmt.Errorf("%w: %q is too short", ErrInvalidAddress, s)
	}

	var prefix uint16
	var prefixLen int
	switch {
	case data[0] < 64:
		prefix, prefixLen = uint16(data[0]), 1
	case data[0] < 128:
		if len(data) < 4 {
			return 0, nil, fmt.Errorf("%w: %q is too short", ErrInvalidAddress, s)
		}
		lower := (data[0] << 2) | (data[1] >> 6)
		upper := data[1] & 0b0011_1111
		prefix, prefixLen = uint16(lower)|uint16(upper)<<8, 2
	default:
		return 0, nil, fmt.Errorf("%w: %q has a reserved prefix", ErrInvalidAddress, s)
	}

	body, check := data[:len(data)-2], data[len(data)-2:]
	sum := ss58Checksum(body)
	if !bytes.Equal(sum[:2], check) {
		return 0, nil, fmt.Errorf("%w: %q has a bad checksum", ErrInvalidAddress, s)
	}
	return prefix, body[prefixLen:], nil
}

func ss58Checksum(data []byte) [64]byte {
	return blake2b.Sum512(append(append([]byte{}, ss58Prefix...), data...))
}

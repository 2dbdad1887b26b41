// Package account derives signing key pairs from secret URIs and handles
// SS58 account addresses.
package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidSecret is returned when a secret URI cannot be turned into a key pair.
var ErrInvalidSecret = errors.New("secret string error")

// Keypair is an sr25519 signing key derived from a secret URI.
type Keypair struct {
	uri    string
	public AccountID
}

// FromSecretURI derives an sr25519 key pair. suri is a mnemonic phrase, a 0x hex seed
// or a bare derivation path such as "//Alice" (which uses the development phrase),
// optionally followed by "//hard" and "/soft" junctions. password, when set, is the
// "///password" component.
func FromSecretURI(suri, password string) (*Keypair, error) {
	suri = strings.TrimSpace(suri)
	if suri == "" {
		return nil, fmt.Errorf("%w: empty secret URI", ErrInvalidSecret)
	}
	if err := checkPhrase(suri); err != nil {
		return nil, err
	}

	uri := suri
	if password != "" {
		if strings.Contains(suri, "///") {
			return nil, fmt.Errorf("%w: password given twice", ErrInvalidSecret)
		}
		uri += "///" + password
	}

	pair, err := signature.KeyringPairFromSecret(uri, 42)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(pair.PublicKey) != len(AccountID{}) {
		return nil, fmt.Errorf("%w: unexpected public key length %d", ErrInvalidSecret, len(pair.PublicKey))
	}

	k := &Keypair{uri: uri}
	copy(k.public[:], pair.PublicKey)
	return k, nil
}

// checkPhrase rejects mnemonic phrases that fail the BIP-39 checksum before key derivation.
func checkPhrase(suri string) error {
	phrase := suri
	if i := strings.Index(suri, "/"); i >= 0 {
		phrase = suri[:i]
	}
	phrase = strings.TrimSpace(phrase)
	if phrase == "" || strings.HasPrefix(phrase, "0x") {
		return nil
	}
	if !strings.Contains(phrase, " ") {
		return fmt.Errorf("%w: expected a mnemonic phrase, hex seed or derivation path", ErrInvalidSecret)
	}
	if !bip39.IsMnemonicValid(phrase) {
		return fmt.Errorf("%w: invalid mnemonic phrase", ErrInvalidSecret)
	}
	return nil
}

// AccountID returns the public key as an account id.
func (k *Keypair) AccountID() AccountID { return k.public }

// Address returns the SS58 address of the key for the given network prefix.
func (k *Keypair) Address(prefix uint16) string { return k.public.SS58(prefix) }

// Sign produces an sr25519 signature over msg.
func (k *Keypair) Sign(msg []byte) ([]byte, error) {
	sig, err := signature.Sign(msg, k.uri)
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}
	return sig, nil
}

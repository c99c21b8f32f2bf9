package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Key sizes in bytes.
const (
	PrivateKeySize            = 32
	PublicKeySize             = 33
	UncompressedPublicKeySize = 65
)

// ErrInvalidPrivateKey is returned for a scalar that is zero or not below the
// curve order.
var ErrInvalidPrivateKey = errors.New("invalid private key")

// PublicKeyFromPrivate returns the compressed 33-byte public key for a
// 32-byte secp256k1 private key.
func PublicKeyFromPrivate(priv []byte) ([]byte, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(priv))
	}
	var k secp256k1.ModNScalar
	overflow := k.SetByteSlice(priv)
	defer k.Zero()
	if overflow || k.IsZero() {
		return nil, ErrInvalidPrivateKey
	}
	key := secp256k1.NewPrivateKey(&k)
	defer key.Zero()
	return key.PubKey().SerializeCompressed(), nil
}

// ValidPrivateKey reports whether priv is a usable secp256k1 scalar (non-zero
// and below the curve order).
func ValidPrivateKey(priv []byte) bool {
	if len(priv) != PrivateKeySize {
		return false
	}
	var k secp256k1.ModNScalar
	overflow := k.SetByteSlice(priv)
	defer k.Zero()
	return !overflow && !k.IsZero()
}

// DecompressPublicKey parses a compressed or uncompressed public key and
// returns its 65-byte uncompressed form.
func DecompressPublicKey(pub []byte) ([]byte, error) {
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return key.SerializeUncompressed(), nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

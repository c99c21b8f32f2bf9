package mnemonic

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// Seed derivation parameters from BIP-39.
const (
	SeedSize       = 64
	SeedIterations = 2048
	seedSaltPrefix = "mnemonic"
)

// MnemonicToSeed derives a 512-bit seed from a phrase and optional password
// using PBKDF2-HMAC-SHA512. The phrase is not checked against any wordlist.
func MnemonicToSeed(phrase, password string) []byte {
	return pbkdf2.Key(
		[]byte(norm.NFKD.String(phrase)),
		[]byte(seedSaltPrefix+norm.NFKD.String(password)),
		SeedIterations,
		SeedSize,
		sha512.New,
	)
}

// SeedFromMnemonic validates phrase against wl and then derives its seed.
func SeedFromMnemonic(phrase, password string, wl *Wordlist) ([]byte, error) {
	if _, err := MnemonicToEntropy(phrase, wl); err != nil {
		return nil, err
	}
	return MnemonicToSeed(phrase, password), nil
}

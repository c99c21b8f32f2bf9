// Package wallet implements a BIP-44 account layer on top of the HD
// derivation engine.
package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/internal/log"
	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
)

// DefaultWordCount is the phrase length of newly generated mnemonics.
const DefaultWordCount = 24

// GenerateMnemonic creates a new BIP-39 mnemonic of words words (12, 15,
// 18, 21 or 24) in wl. A nil wl selects English.
func GenerateMnemonic(words int, wl *mnemonic.Wordlist) (string, error) {
	if words%3 != 0 {
		return "", fmt.Errorf("%w: %d", mnemonic.ErrInvalidWordCount, words)
	}
	bits := words / 3 * 32
	entropy, err := mnemonic.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("%w: %d", mnemonic.ErrInvalidWordCount, words)
	}
	defer crypto.Zero(entropy)

	phrase, err := mnemonic.EntropyToMnemonic(entropy, wl)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	log.Wallet.Debug().Int("words", words).Msg("Generated mnemonic")
	return phrase, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(phrase string, wl *mnemonic.Wordlist) error {
	if _, err := mnemonic.MnemonicToEntropy(phrase, wl); err != nil {
		return fmt.Errorf("validate mnemonic: %w", err)
	}
	return nil
}

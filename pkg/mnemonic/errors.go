package mnemonic

import "errors"

// Codec and wordlist errors. Callers should match them with errors.Is; the
// returned errors wrap them with the offending value.
var (
	ErrInvalidEntropyLength = errors.New("invalid entropy length")
	ErrInvalidWordCount     = errors.New("invalid mnemonic word count")
	ErrInvalidMnemonicWord  = errors.New("invalid mnemonic word")
	ErrInvalidChecksum      = errors.New("invalid mnemonic checksum")
	ErrInvalidWordlist      = errors.New("invalid wordlist")
	ErrUnknownLocale        = errors.New("unknown wordlist locale")
)

// Package mnemonic implements the BIP-39 mnemonic codec and seed derivation.
//
// Phrases are NFKD-normalized on every path so that encoding and decoding
// agree for wordlists containing combining characters. A nil *Wordlist
// selects the English list.
package mnemonic

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

const bitsPerWord = 11

// EntropySizes lists the accepted entropy lengths in bytes. The matching
// phrase lengths are 12, 15, 18, 21 and 24 words.
var EntropySizes = []int{16, 20, 24, 28, 32}

func validEntropySize(n int) bool {
	for _, size := range EntropySizes {
		if n == size {
			return true
		}
	}
	return false
}

// WordCount returns the number of words encoding entropyLen bytes.
func WordCount(entropyLen int) int {
	return (entropyLen*8 + entropyLen/4) / bitsPerWord
}

func validWordCount(n int) bool {
	for _, size := range EntropySizes {
		if n == WordCount(size) {
			return true
		}
	}
	return false
}

// NewEntropy returns bits of random entropy. bits must be a multiple of 32
// between 128 and 256.
func NewEntropy(bits int) ([]byte, error) {
	if bits%8 != 0 || !validEntropySize(bits/8) {
		return nil, fmt.Errorf("%w: %d bits", ErrInvalidEntropyLength, bits)
	}
	entropy := make([]byte, bits/8)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return entropy, nil
}

// EntropyToMnemonic encodes entropy as a mnemonic phrase in wl.
func EntropyToMnemonic(entropy []byte, wl *Wordlist) (string, error) {
	wl = orEnglish(wl)
	if !validEntropySize(len(entropy)) {
		return "", fmt.Errorf("%w: got %d bytes, want 16, 20, 24, 28 or 32",
			ErrInvalidEntropyLength, len(entropy))
	}

	// At most 8 checksum bits, so one byte of the digest is enough.
	sum := sha256.Sum256(entropy)
	data := make([]byte, len(entropy)+1)
	copy(data, entropy)
	data[len(entropy)] = sum[0]

	words := make([]string, WordCount(len(entropy)))
	for i := range words {
		words[i] = wl.Word(readBits(data, i*bitsPerWord, bitsPerWord))
	}
	return wl.Join(words), nil
}

// MnemonicToEntropy decodes a phrase in wl back to its entropy and verifies
// the checksum.
func MnemonicToEntropy(phrase string, wl *Wordlist) ([]byte, error) {
	wl = orEnglish(wl)
	words := wl.Split(phrase)
	if !validWordCount(len(words)) {
		return nil, fmt.Errorf("%w: got %d, want 12, 15, 18, 21 or 24", ErrInvalidWordCount, len(words))
	}

	data := make([]byte, (len(words)*bitsPerWord+7)/8)
	for i, w := range words {
		idx, ok := wl.Index(w)
		if !ok {
			return nil, fmt.Errorf("%w: %q at position %d (locale %s)", ErrInvalidMnemonicWord, w, i+1, wl.Locale())
		}
		writeBits(data, i*bitsPerWord, bitsPerWord, idx)
	}

	// ENT + ENT/32 = total bits.
	entropyLen := len(words) * bitsPerWord * 32 / 33 / 8
	checksumBits := entropyLen / 4

	entropy := make([]byte, entropyLen)
	copy(entropy, data[:entropyLen])
	sum := sha256.Sum256(entropy)

	mask := byte(0xff) << (8 - checksumBits)
	if data[entropyLen]&mask != sum[0]&mask {
		return nil, fmt.Errorf("%w: got %02x, want %02x", ErrInvalidChecksum,
			data[entropyLen]&mask, sum[0]&mask)
	}
	return entropy, nil
}

// IsValidMnemonic reports whether phrase decodes cleanly in wl.
func IsValidMnemonic(phrase string, wl *Wordlist) bool {
	_, err := MnemonicToEntropy(phrase, wl)
	return err == nil
}

// readBits returns n bits of data starting at bit offset, big-endian.
func readBits(data []byte, offset, n int) int {
	v := 0
	for i := 0; i < n; i++ {
		bit := offset + i
		v <<= 1
		if data[bit/8]&(0x80>>(bit%8)) != 0 {
			v |= 1
		}
	}
	return v
}

// writeBits stores the low n bits of v into data starting at bit offset.
func writeBits(data []byte, offset, n, v int) {
	for i := 0; i < n; i++ {
		if v&(1<<(n-1-i)) == 0 {
			continue
		}
		bit := offset + i
		data[bit/8] |= 0x80 >> (bit % 8)
	}
}

// Package crypto provides the hashing and secp256k1 helpers shared by the
// key-derivation packages.
package crypto

import (
	"crypto/sha256"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // BIP-32 fingerprints are defined over RIPEMD-160.
	"golang.org/x/crypto/sha3"
)

// HashSize is the length of a 256-bit digest.
const HashSize = 32

// Hash160Size is the length of a RIPEMD160(SHA256(x)) digest.
const Hash160Size = 20

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) [HashSize]byte {
	return blake3.Sum256(data)
}

// Sha256 computes a single SHA-256 digest.
func Sha256(data []byte) [HashSize]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 computes SHA256(SHA256(data)).
// Used for base58check checksums.
func DoubleSha256(data []byte) [HashSize]byte {
	first := Sha256(data)
	return Sha256(first[:])
}

// Hash160 computes RIPEMD160(SHA256(data)), the BIP-32 key identifier.
func Hash160(data []byte) [Hash160Size]byte {
	sha := Sha256(data)
	h := ripemd160.New()
	h.Write(sha[:])
	var out [Hash160Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Keccak256 computes the legacy (pre-NIST) Keccak-256 digest used by Ethereum.
func Keccak256(data ...[]byte) [HashSize]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

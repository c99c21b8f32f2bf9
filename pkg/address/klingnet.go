package address

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address human-readable parts.
const (
	MainnetHRP = "kgx"
	TestnetHRP = "tkgx"
)

// Adapter names for the Klingnet networks.
const (
	KlingnetName        = "klingnet"
	KlingnetTestnetName = "klingnet-testnet"
)

// Klingnet encodes the first 20 bytes of BLAKE3(compressed pubkey) as a
// bech32 string under HRP, e.g. "kgx1...".
type Klingnet struct {
	HRP string
}

// Name implements Adapter.
func (k Klingnet) Name() string {
	if k.HRP == TestnetHRP {
		return KlingnetTestnetName
	}
	return KlingnetName
}

// Address implements Adapter.
func (k Klingnet) Address(pub []byte) (string, error) {
	if len(pub) != crypto.PublicKeySize {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(pub), crypto.PublicKeySize)
	}
	if _, err := crypto.DecompressPublicKey(pub); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	h := crypto.Hash(pub)
	return EncodeKlingnet(k.hrp(), h[:Size])
}

func (k Klingnet) hrp() string {
	if k.HRP == "" {
		return MainnetHRP
	}
	return k.HRP
}

// EncodeKlingnet bech32-encodes a 20-byte account hash.
func EncodeKlingnet(hrp string, hash []byte) (string, error) {
	if len(hash) != Size {
		return "", fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidAddress, Size, len(hash))
	}
	conv, err := bech32.ConvertBits(hash, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("bech32 convert bits: %w", err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return s, nil
}

// DecodeKlingnet parses a bech32 Klingnet address and returns its HRP and
// 20-byte account hash.
func DecodeKlingnet(s string) (string, [Size]byte, error) {
	var out [Size]byte
	hrp, data5, err := bech32.Decode(s)
	if err != nil {
		return "", out, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != MainnetHRP && hrp != TestnetHRP {
		return "", out, fmt.Errorf("%w: unknown prefix %q", ErrInvalidAddress, hrp)
	}
	data, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return "", out, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(data) != Size {
		return "", out, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidAddress, len(data), Size)
	}
	copy(out[:], data)
	return hrp, out, nil
}

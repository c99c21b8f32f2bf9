package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
)

// EthereumName is the name of the Ethereum adapter.
const EthereumName = "ethereum"

// Ethereum derives EIP-55 checksummed addresses: the last 20 bytes of the
// Keccak-256 hash of the uncompressed public key without its 0x04 prefix.
type Ethereum struct{}

// Name implements Adapter.
func (Ethereum) Name() string { return EthereumName }

// Address implements Adapter.
func (Ethereum) Address(pub []byte) (string, error) {
	full, err := crypto.DecompressPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	h := crypto.Keccak256(full[1:])
	return "0x" + checksumHex(hex.EncodeToString(h[len(h)-Size:])), nil
}

// ChecksumAddress normalizes a 0x-prefixed hex address to its EIP-55 form.
// Mixed-case input must already carry a valid checksum.
func ChecksumAddress(addr string) (string, error) {
	digits, ok := strings.CutPrefix(addr, "0x")
	if !ok || len(digits) != 2*Size {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	if _, err := hex.DecodeString(digits); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}

	lower := strings.ToLower(digits)
	want := checksumHex(lower)
	if digits != lower && digits != strings.ToUpper(digits) && digits != want {
		return "", fmt.Errorf("%w: bad checksum %q", ErrInvalidAddress, addr)
	}
	return "0x" + want, nil
}

// checksumHex applies EIP-55 casing to lower-case hex digits. A letter is
// upper-cased when the matching nibble of keccak256(digits) is 8 or more.
func checksumHex(lower string) string {
	h := crypto.Keccak256([]byte(lower))
	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := h[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

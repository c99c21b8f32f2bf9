// Package address renders HD node public keys as chain-specific account
// addresses.
package address

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
)

// Size is the length of an account address in bytes.
const Size = 20

// Adapter turns a compressed secp256k1 public key into an address string.
type Adapter interface {
	// Name identifies the address scheme, e.g. "ethereum".
	Name() string

	// Address returns the encoded address for a 33-byte compressed key.
	Address(pub []byte) (string, error)
}

// ForNode returns the address of node n under adapter a.
func ForNode(a Adapter, n *hdnode.Node) (string, error) {
	addr, err := a.Address(n.PublicKey())
	if err != nil {
		return "", fmt.Errorf("%s address: %w", a.Name(), err)
	}
	return addr, nil
}

// ForName returns the adapter registered under name. Known names are
// "ethereum", "klingnet" and "klingnet-testnet".
func ForName(name string) (Adapter, error) {
	switch name {
	case EthereumName:
		return Ethereum{}, nil
	case KlingnetName:
		return Klingnet{HRP: MainnetHRP}, nil
	case KlingnetTestnetName:
		return Klingnet{HRP: TestnetHRP}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}
}

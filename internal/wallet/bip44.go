package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
)

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = hdnode.HardenedOffset + 44

	// CoinTypeEthereum is the SLIP-44 coin type for Ethereum (hardened).
	CoinTypeEthereum = hdnode.HardenedOffset + 60

	// CoinTypeKlingnet is the Klingnet coin type (hardened).
	CoinTypeKlingnet = hdnode.HardenedOffset + 8888

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1
)

// CoinTypeFor returns the hardened coin type used with adapter a.
func CoinTypeFor(a address.Adapter) (uint32, error) {
	switch a.Name() {
	case address.EthereumName:
		return CoinTypeEthereum, nil
	case address.KlingnetName, address.KlingnetTestnetName:
		return CoinTypeKlingnet, nil
	default:
		return 0, fmt.Errorf("%w: no coin type for %q", address.ErrUnknownAdapter, a.Name())
	}
}

// AccountPath returns the hardened account-level path m/44'/coin'/account'.
func AccountPath(coinType, account uint32) (hdnode.DerivationPath, error) {
	if account >= hdnode.HardenedOffset {
		return nil, fmt.Errorf("account %d: %w", account, hdnode.ErrIndexOutOfRange)
	}
	return hdnode.DerivationPath{PurposeBIP44, coinType, hdnode.HardenedOffset + account}, nil
}

// AddressPath returns the full path m/44'/coin'/account'/change/index.
func AddressPath(coinType, account, change, index uint32) (hdnode.DerivationPath, error) {
	if change != ChangeExternal && change != ChangeInternal {
		return nil, fmt.Errorf("change %d: must be %d or %d", change, ChangeExternal, ChangeInternal)
	}
	if index >= hdnode.HardenedOffset {
		return nil, fmt.Errorf("address index %d: %w", index, hdnode.ErrIndexOutOfRange)
	}
	acct, err := AccountPath(coinType, account)
	if err != nil {
		return nil, err
	}
	return append(acct, change, index), nil
}

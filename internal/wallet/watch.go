package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
)

// WatchOnly derives the addresses of a single account from its xpub. It
// holds no private keys.
type WatchOnly struct {
	account  *hdnode.Node
	adapter  address.Adapter
	coinType uint32
	number   uint32
}

// NewWatchOnly parses an account-level xpub as returned by
// Wallet.AccountExtendedKey.
func NewWatchOnly(xpub string, a address.Adapter) (*WatchOnly, error) {
	coinType, err := CoinTypeFor(a)
	if err != nil {
		return nil, err
	}
	node, err := hdnode.FromExtendedKey(xpub)
	if err != nil {
		return nil, fmt.Errorf("watch-only wallet: %w", err)
	}
	if node.Depth() != 3 || !node.Hardened() {
		return nil, fmt.Errorf("watch-only wallet: %w: want a hardened depth-3 account key, got depth %d",
			hdnode.ErrInvalidExtendedKey, node.Depth())
	}
	return &WatchOnly{
		account:  node.Neuter(),
		adapter:  a,
		coinType: coinType,
		number:   node.Index() - hdnode.HardenedOffset,
	}, nil
}

// DeriveAccount derives the address at change/index below the account key.
func (w *WatchOnly) DeriveAccount(change, index uint32) (*Account, error) {
	path, err := AddressPath(w.coinType, w.number, change, index)
	if err != nil {
		return nil, err
	}
	node, err := w.account.DeriveIndices(change, index)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", path, err)
	}
	return newAccount(w.adapter, node, path, w.number, change, index)
}

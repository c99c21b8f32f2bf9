package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/internal/log"
	"github.com/Klingon-tech/klingnet-hd/pkg/address"
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
)

// Wallet derives BIP-44 accounts for one address scheme from a master node.
type Wallet struct {
	root     *hdnode.Node
	adapter  address.Adapter
	coinType uint32
}

// Option configures New.
type Option func(*options)

type options struct {
	password string
	wordlist *mnemonic.Wordlist
	adapter  address.Adapter
}

// WithPassword sets the BIP-39 passphrase.
func WithPassword(password string) Option {
	return func(o *options) { o.password = password }
}

// WithWordlist sets the wordlist the mnemonic is checked against.
func WithWordlist(wl *mnemonic.Wordlist) Option {
	return func(o *options) { o.wordlist = wl }
}

// WithAdapter sets the address scheme. The default is Ethereum.
func WithAdapter(a address.Adapter) Option {
	return func(o *options) { o.adapter = a }
}

// New creates a wallet from a mnemonic phrase.
func New(phrase string, opts ...Option) (*Wallet, error) {
	o := options{adapter: address.Ethereum{}}
	for _, opt := range opts {
		opt(&o)
	}

	coinType, err := CoinTypeFor(o.adapter)
	if err != nil {
		return nil, err
	}

	root, err := hdnode.FromMnemonic(phrase,
		hdnode.WithPassword(o.password),
		hdnode.WithWordlist(o.wordlist),
	)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	log.Wallet.Debug().
		Str("scheme", o.adapter.Name()).
		Str("fingerprint", fmt.Sprintf("%x", root.Fingerprint())).
		Msg("Wallet opened")

	return &Wallet{root: root, adapter: o.adapter, coinType: coinType}, nil
}

// Root returns the master node.
func (w *Wallet) Root() *hdnode.Node {
	return w.root
}

// Adapter returns the address scheme of the wallet.
func (w *Wallet) Adapter() address.Adapter {
	return w.adapter
}

// CoinType returns the hardened BIP-44 coin type of the wallet.
func (w *Wallet) CoinType() uint32 {
	return w.coinType
}

// DeriveAccount derives the address at m/44'/coin'/account'/change/index.
func (w *Wallet) DeriveAccount(account, change, index uint32) (*Account, error) {
	path, err := AddressPath(w.coinType, account, change, index)
	if err != nil {
		return nil, err
	}
	node, err := w.root.DeriveIndices(path...)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", path, err)
	}
	return newAccount(w.adapter, node, path, account, change, index)
}

// DeriveAccounts derives count consecutive addresses starting at index
// start on the given account and change chain.
func (w *Wallet) DeriveAccounts(account, change, start, count uint32) ([]*Account, error) {
	out := make([]*Account, 0, count)
	for i := uint32(0); i < count; i++ {
		acct, err := w.DeriveAccount(account, change, start+i)
		if err != nil {
			return nil, err
		}
		out = append(out, acct)
	}
	return out, nil
}

// AccountExtendedKey returns the xpub of m/44'/coin'/account', from which a
// watch-only wallet can derive the account's addresses.
func (w *Wallet) AccountExtendedKey(account uint32) (string, error) {
	path, err := AccountPath(w.coinType, account)
	if err != nil {
		return "", err
	}
	node, err := w.root.DeriveIndices(path...)
	if err != nil {
		return "", fmt.Errorf("derive %s: %w", path, err)
	}
	return node.Neuter().ExtendedKey(), nil
}

func newAccount(a address.Adapter, node *hdnode.Node, path hdnode.DerivationPath, account, change, index uint32) (*Account, error) {
	addr, err := address.ForNode(a, node)
	if err != nil {
		return nil, err
	}
	log.Wallet.Debug().
		Str("path", path.String()).
		Str("address", addr).
		Msg("Derived account")

	return &Account{
		Account:   account,
		Change:    change,
		Index:     index,
		Path:      path.String(),
		Address:   addr,
		PublicKey: node.PublicKey(),
		node:      node,
	}, nil
}

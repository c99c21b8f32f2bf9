package wallet

import (
	"github.com/Klingon-tech/klingnet-hd/pkg/hdnode"
)

// Account is a derived BIP-44 address.
type Account struct {
	Account   uint32
	Change    uint32
	Index     uint32
	Path      string
	Address   string
	PublicKey []byte

	node *hdnode.Node
}

// PrivateKeyHex returns the 0x-prefixed private key, or "" for accounts
// derived from a watch-only wallet.
func (a *Account) PrivateKeyHex() string {
	return a.node.PrivateKeyHex()
}

// Node returns the HD node the account was derived from.
func (a *Account) Node() *hdnode.Node {
	return a.node
}

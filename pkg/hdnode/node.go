// Package hdnode implements BIP-32 hierarchical deterministic key derivation
// over secp256k1.
//
// A Node is immutable: every derivation returns a new Node and never touches
// its parent, so Nodes can be shared freely between goroutines.
package hdnode

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
	"github.com/Klingon-tech/klingnet-hd/pkg/mnemonic"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Seed bounds from BIP-32 (128 to 512 bits).
const (
	MinSeedSize = 16
	MaxSeedSize = 64
)

// Key material sizes.
const (
	ChainCodeSize   = 32
	FingerprintSize = 4
)

// masterKeySalt is the HMAC key used to derive the master node.
var masterKeySalt = []byte("Bitcoin seed")

// Node is a BIP-32 extended key with its position in the tree.
type Node struct {
	privateKey        fn.Option[[crypto.PrivateKeySize]byte]
	publicKey         [crypto.PublicKeySize]byte
	chainCode         [ChainCodeSize]byte
	depth             uint8
	index             uint32
	parentFingerprint [FingerprintSize]byte

	mnemonic fn.Option[string]
	path     fn.Option[string]
}

// FromSeed creates the master node for a 16 to 64 byte seed.
func FromSeed(seed []byte) (*Node, error) {
	if len(seed) < MinSeedSize || len(seed) > MaxSeedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d to %d",
			ErrInvalidSeedLength, len(seed), MinSeedSize, MaxSeedSize)
	}

	mac := hmac.New(sha512.New, masterKeySalt)
	mac.Write(seed)
	sum := mac.Sum(nil)
	defer crypto.Zero(sum)

	return masterFromSum(sum)
}

// masterFromSum builds the master node from I = HMAC-SHA512("Bitcoin seed", S).
func masterFromSum(sum []byte) (*Node, error) {
	key, chainCode, err := splitSum(sum)
	defer key.Zero()
	if err != nil || key.IsZero() {
		return nil, ErrInvalidMasterKey
	}

	n := &Node{chainCode: chainCode, path: fn.Some(RootPath)}
	n.setPrivateKey(&key)
	return n, nil
}

// MnemonicOption configures FromMnemonic.
type MnemonicOption func(*mnemonicOptions)

type mnemonicOptions struct {
	password string
	wordlist *mnemonic.Wordlist
}

// WithPassword sets the BIP-39 passphrase mixed into the seed.
func WithPassword(password string) MnemonicOption {
	return func(o *mnemonicOptions) {
		o.password = password
	}
}

// WithWordlist sets the wordlist the phrase is validated against. The
// default is English.
func WithWordlist(wl *mnemonic.Wordlist) MnemonicOption {
	return func(o *mnemonicOptions) {
		o.wordlist = wl
	}
}

// FromMnemonic validates phrase, derives its seed and returns the master
// node. The phrase is kept on the node and inherited by its descendants.
func FromMnemonic(phrase string, opts ...MnemonicOption) (*Node, error) {
	var o mnemonicOptions
	for _, opt := range opts {
		opt(&o)
	}

	seed, err := mnemonic.SeedFromMnemonic(phrase, o.password, o.wordlist)
	if err != nil {
		return nil, fmt.Errorf("seed from mnemonic: %w", err)
	}
	defer crypto.Zero(seed)

	root, err := FromSeed(seed)
	if err != nil {
		return nil, err
	}
	root.mnemonic = fn.Some(phrase)
	return root, nil
}

// setPrivateKey stores k and its compressed public key.
func (n *Node) setPrivateKey(k *secp256k1.ModNScalar) {
	n.privateKey = fn.Some(k.Bytes())
	priv := secp256k1.NewPrivateKey(k)
	copy(n.publicKey[:], priv.PubKey().SerializeCompressed())
	priv.Zero()
}

// PrivateKey returns the 32-byte private key, or None for public-only nodes.
func (n *Node) PrivateKey() fn.Option[[crypto.PrivateKeySize]byte] {
	return n.privateKey
}

// PrivateKeyBytes returns a copy of the private key, or nil for public-only
// nodes.
func (n *Node) PrivateKeyBytes() []byte {
	return fn.MapOptionZ(n.privateKey, func(k [crypto.PrivateKeySize]byte) []byte {
		return k[:]
	})
}

// PrivateKeyHex returns the private key as 0x-prefixed hex, or "" for
// public-only nodes.
func (n *Node) PrivateKeyHex() string {
	return fn.MapOptionZ(n.privateKey, func(k [crypto.PrivateKeySize]byte) string {
		return "0x" + hex.EncodeToString(k[:])
	})
}

// PublicKey returns a copy of the compressed 33-byte public key.
func (n *Node) PublicKey() []byte {
	out := make([]byte, crypto.PublicKeySize)
	copy(out, n.publicKey[:])
	return out
}

// ChainCode returns a copy of the chain code.
func (n *Node) ChainCode() []byte {
	out := make([]byte, ChainCodeSize)
	copy(out, n.chainCode[:])
	return out
}

// IsPrivate returns true if the node holds a private key.
func (n *Node) IsPrivate() bool {
	return n.privateKey.IsSome()
}

// Depth returns the number of derivation steps from the master node.
func (n *Node) Depth() uint8 {
	return n.depth
}

// Index returns the child index this node was derived with, including the
// hardened bit. It is 0 for the master node.
func (n *Node) Index() uint32 {
	return n.index
}

// Hardened reports whether the node was derived with a hardened index.
func (n *Node) Hardened() bool {
	return n.index >= HardenedOffset
}

// ParentFingerprint returns the fingerprint of the parent's public key.
func (n *Node) ParentFingerprint() [FingerprintSize]byte {
	return n.parentFingerprint
}

// Fingerprint returns the first four bytes of Hash160 of the public key.
func (n *Node) Fingerprint() [FingerprintSize]byte {
	id := crypto.Hash160(n.publicKey[:])
	var fp [FingerprintSize]byte
	copy(fp[:], id[:FingerprintSize])
	return fp
}

// Mnemonic returns the phrase the tree was built from, if known.
func (n *Node) Mnemonic() fn.Option[string] {
	return n.mnemonic
}

// Path returns the textual derivation path, if known.
func (n *Node) Path() fn.Option[string] {
	return n.path
}

// Neuter returns a public-only copy of the node. The mnemonic is dropped
// since it would reveal every private key in the tree.
func (n *Node) Neuter() *Node {
	return &Node{
		publicKey:         n.publicKey,
		chainCode:         n.chainCode,
		depth:             n.depth,
		index:             n.index,
		parentFingerprint: n.parentFingerprint,
		path:              n.path,
	}
}

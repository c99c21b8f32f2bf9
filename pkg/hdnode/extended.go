package hdnode

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/mr-tron/base58"
)

// Mainnet BIP-32 serialization versions.
var (
	PrivateVersion = [4]byte{0x04, 0x88, 0xad, 0xe4} // xprv
	PublicVersion  = [4]byte{0x04, 0x88, 0xb2, 0x1e} // xpub
)

// Serialized layout:
// version(4) | depth(1) | parent fingerprint(4) | index(4) | chain code(32) | key(33) | checksum(4)
const (
	serializedKeyLen = 4 + 1 + FingerprintSize + 4 + ChainCodeSize + crypto.PublicKeySize
	checksumLen      = 4
)

// ExtendedKey returns the base58check xprv encoding for private nodes and
// the xpub encoding for public-only nodes.
func (n *Node) ExtendedKey() string {
	buf := make([]byte, 0, serializedKeyLen+checksumLen)
	if n.privateKey.IsSome() {
		buf = append(buf, PrivateVersion[:]...)
	} else {
		buf = append(buf, PublicVersion[:]...)
	}
	buf = append(buf, n.depth)
	buf = append(buf, n.parentFingerprint[:]...)
	buf = binary.BigEndian.AppendUint32(buf, n.index)
	buf = append(buf, n.chainCode[:]...)
	if n.privateKey.IsSome() {
		priv := n.privateKey.UnsafeFromSome()
		buf = append(buf, 0x00)
		buf = append(buf, priv[:]...)
		crypto.Zero(priv[:])
	} else {
		buf = append(buf, n.publicKey[:]...)
	}

	sum := crypto.DoubleSha256(buf)
	buf = append(buf, sum[:checksumLen]...)
	defer crypto.Zero(buf)
	return base58.Encode(buf)
}

// FromExtendedKey parses an xprv or xpub string. Parsed nodes carry no
// mnemonic; the path is only known ("m") for depth-zero keys.
func FromExtendedKey(s string) (*Node, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base58: %v", ErrInvalidExtendedKey, err)
	}
	defer crypto.Zero(raw)
	if len(raw) != serializedKeyLen+checksumLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidExtendedKey, len(raw), serializedKeyLen+checksumLen)
	}

	payload, check := raw[:serializedKeyLen], raw[serializedKeyLen:]
	sum := crypto.DoubleSha256(payload)
	if !bytes.Equal(sum[:checksumLen], check) {
		return nil, fmt.Errorf("%w: bad checksum", ErrInvalidExtendedKey)
	}

	var version [4]byte
	copy(version[:], payload[:4])
	n := &Node{depth: payload[4]}
	copy(n.parentFingerprint[:], payload[5:9])
	n.index = binary.BigEndian.Uint32(payload[9:13])
	copy(n.chainCode[:], payload[13:45])
	keyData := payload[45:]

	if n.depth == 0 && (n.index != 0 || n.parentFingerprint != [FingerprintSize]byte{}) {
		return nil, fmt.Errorf("%w: master key with parent fingerprint or index", ErrInvalidExtendedKey)
	}

	switch version {
	case PrivateVersion:
		if keyData[0] != 0x00 {
			return nil, fmt.Errorf("%w: private key prefix %#02x", ErrInvalidExtendedKey, keyData[0])
		}
		var key secp256k1.ModNScalar
		overflow := key.SetByteSlice(keyData[1:])
		defer key.Zero()
		if overflow || key.IsZero() {
			return nil, fmt.Errorf("%w: private key out of range", ErrInvalidExtendedKey)
		}
		n.setPrivateKey(&key)

	case PublicVersion:
		if keyData[0] != 0x02 && keyData[0] != 0x03 {
			return nil, fmt.Errorf("%w: public key prefix %#02x", ErrInvalidExtendedKey, keyData[0])
		}
		if _, err := secp256k1.ParsePubKey(keyData); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExtendedKey, err)
		}
		copy(n.publicKey[:], keyData)

	default:
		return nil, fmt.Errorf("%w: unknown version %x", ErrInvalidExtendedKey, version)
	}

	if n.depth == 0 {
		n.path = fn.Some(RootPath)
	}
	return n, nil
}

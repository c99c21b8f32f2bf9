package hdnode

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Klingon-tech/klingnet-hd/pkg/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// HardenedOffset is the first hardened child index (2^31).
const HardenedOffset uint32 = 0x80000000

// DeriveChild derives the child at index. Indices at or above HardenedOffset
// are hardened and need a private key. A private node yields a private child;
// a public-only node yields a public-only child.
func (n *Node) DeriveChild(index uint32) (*Node, error) {
	if n.depth == math.MaxUint8 {
		return nil, fmt.Errorf("derive child %s: %w", formatIndex(index), ErrDepthOverflow)
	}

	// Hardened:     0x00 || ser256(k_par) || ser32(i)
	// Non-hardened: serP(K_par) || ser32(i)
	data := make([]byte, 0, crypto.PublicKeySize+4)
	if index >= HardenedOffset {
		if n.privateKey.IsNone() {
			return nil, fmt.Errorf("derive child %s: %w", formatIndex(index), ErrCannotDeriveHardenedFromPublic)
		}
		priv := n.privateKey.UnsafeFromSome()
		data = append(data, 0x00)
		data = append(data, priv[:]...)
		crypto.Zero(priv[:])
	} else {
		data = append(data, n.publicKey[:]...)
	}
	data = binary.BigEndian.AppendUint32(data, index)
	defer crypto.Zero(data)

	mac := hmac.New(sha512.New, n.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	defer crypto.Zero(sum)

	tweak, chainCode, err := splitSum(sum)
	defer tweak.Zero()
	if err != nil {
		return nil, fmt.Errorf("derive child %s: %w", formatIndex(index), err)
	}

	child := &Node{
		chainCode:         chainCode,
		depth:             n.depth + 1,
		index:             index,
		parentFingerprint: n.Fingerprint(),
		mnemonic:          n.mnemonic,
	}

	if n.privateKey.IsSome() {
		err = derivePrivate(child, n, &tweak)
	} else {
		err = derivePublic(child, n, &tweak)
	}
	if err != nil {
		return nil, fmt.Errorf("derive child %s: %w", formatIndex(index), err)
	}

	n.path.WhenSome(func(p string) {
		child.path = fn.Some(p + "/" + formatIndex(index))
	})
	return child, nil
}

// splitSum splits an HMAC-SHA512 output into IL, read as a scalar, and the
// chain code IR. IL >= n is rejected.
func splitSum(sum []byte) (secp256k1.ModNScalar, [ChainCodeSize]byte, error) {
	var (
		il        secp256k1.ModNScalar
		chainCode [ChainCodeSize]byte
	)
	if len(sum) != sha512.Size {
		return il, chainCode, fmt.Errorf("hmac output: got %d bytes, want %d", len(sum), sha512.Size)
	}
	if il.SetByteSlice(sum[:32]) {
		il.Zero()
		return il, chainCode, ErrInvalidChildKey
	}
	copy(chainCode[:], sum[32:])
	return il, chainCode, nil
}

// derivePrivate sets child = (tweak + k_par) mod n.
func derivePrivate(child, parent *Node, tweak *secp256k1.ModNScalar) error {
	priv := parent.privateKey.UnsafeFromSome()
	defer crypto.Zero(priv[:])

	var key secp256k1.ModNScalar
	key.SetBytes(&priv)
	defer key.Zero()

	key.Add(tweak)
	if key.IsZero() {
		return ErrInvalidChildKey
	}
	child.setPrivateKey(&key)
	return nil
}

// derivePublic sets child = tweak*G + K_par.
func derivePublic(child, parent *Node, tweak *secp256k1.ModNScalar) error {
	parentKey, err := secp256k1.ParsePubKey(parent.publicKey[:])
	if err != nil {
		return fmt.Errorf("parse parent public key: %w", err)
	}

	var tweakPoint, parentPoint, childPoint secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(tweak, &tweakPoint)
	parentKey.AsJacobian(&parentPoint)
	secp256k1.AddNonConst(&tweakPoint, &parentPoint, &childPoint)

	if (childPoint.X.IsZero() && childPoint.Y.IsZero()) || childPoint.Z.IsZero() {
		return ErrInvalidChildKey
	}
	childPoint.ToAffine()

	pub := secp256k1.NewPublicKey(&childPoint.X, &childPoint.Y)
	copy(child.publicKey[:], pub.SerializeCompressed())
	return nil
}

// DeriveIndices derives along a sequence of raw indices.
func (n *Node) DeriveIndices(indices ...uint32) (*Node, error) {
	current := n
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

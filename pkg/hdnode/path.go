package hdnode

import (
	"fmt"
	"strconv"
	"strings"
)

// RootPath is the path of a master node.
const RootPath = "m"

// DefaultPath is the first Ethereum account under BIP-44.
const DefaultPath = "m/44'/60'/0'/0/0"

const hardenedMarker = "'"

// DerivationPath is a parsed derivation path. Each element is an encoded
// child index with the hardened bit already applied.
type DerivationPath []uint32

// ParsePath parses a path such as "m/44'/60'/0'/0/0".
//
// Grammar: "m" followed by zero or more "/" segments, each segment being a
// decimal number optionally followed by a single apostrophe. Empty segments,
// signs, whitespace, leading zeros ("01") and any other marker are rejected
// with ErrInvalidPath. Values of 2^31 or more are rejected with
// ErrIndexOutOfRange.
func ParsePath(path string) (DerivationPath, error) {
	components := strings.Split(path, "/")
	if components[0] != RootPath {
		return nil, fmt.Errorf("parse path %q: %w: must start with %q", path, ErrInvalidPath, RootPath)
	}

	out := make(DerivationPath, 0, len(components)-1)
	for i, segment := range components[1:] {
		idx, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("parse path %q: segment %d: %w", path, i+1, err)
		}
		out = append(out, idx)
	}
	return out, nil
}

func parseSegment(segment string) (uint32, error) {
	digits, hardened := strings.CutSuffix(segment, hardenedMarker)
	if digits == "" {
		return 0, fmt.Errorf("%w: empty segment %q", ErrInvalidPath, segment)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("%w: unexpected character %q in %q", ErrInvalidPath, digits[i], segment)
		}
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("%w: leading zero in %q", ErrInvalidPath, segment)
	}

	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || v >= uint64(HardenedOffset) {
		return 0, fmt.Errorf("%w: %s >= 2^31", ErrIndexOutOfRange, digits)
	}

	idx := uint32(v)
	if hardened {
		idx += HardenedOffset
	}
	return idx, nil
}

// String renders the path with apostrophes for hardened components.
func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString(RootPath)
	for _, idx := range p {
		sb.WriteByte('/')
		sb.WriteString(formatIndex(idx))
	}
	return sb.String()
}

// formatIndex renders a single encoded index, e.g. "44'" or "0".
func formatIndex(index uint32) string {
	s := strconv.FormatUint(uint64(index&^HardenedOffset), 10)
	if index >= HardenedOffset {
		s += hardenedMarker
	}
	return s
}

// DerivePath parses path and derives each component in turn, starting from
// n. The leading "m" stands for n itself, which need not be a master node;
// DerivePath(RootPath) returns n.
func (n *Node) DerivePath(path string) (*Node, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	child, err := n.DeriveIndices(indices...)
	if err != nil {
		return nil, fmt.Errorf("derive path %q: %w", path, err)
	}
	return child, nil
}

// DerivePath derives path from node. It is the function form of
// Node.DerivePath.
func DerivePath(node *Node, path string) (*Node, error) {
	return node.DerivePath(path)
}

// AccountPath returns the BIP-44 Ethereum path for account index:
// m/44'/60'/<index>'/0/0.
func AccountPath(index uint32) (string, error) {
	if index >= HardenedOffset {
		return "", fmt.Errorf("account %d: %w", index, ErrIndexOutOfRange)
	}
	return fmt.Sprintf("m/44'/60'/%d'/0/0", index), nil
}

package hdnode

import "errors"

// Construction errors.
var (
	ErrInvalidSeedLength  = errors.New("invalid seed length")
	ErrInvalidMasterKey   = errors.New("invalid master key")
	ErrInvalidExtendedKey = errors.New("invalid extended key")
)

// Derivation errors. ErrInvalidChildKey has probability below 2^-127 per
// index; callers that hit it should move on to the next index.
var (
	ErrCannotDeriveHardenedFromPublic = errors.New("cannot derive hardened child from public key")
	ErrInvalidChildKey                = errors.New("invalid child key")
	ErrDepthOverflow                  = errors.New("derivation depth exceeds 255")
)

// Path parsing errors.
var (
	ErrInvalidPath     = errors.New("invalid derivation path")
	ErrIndexOutOfRange = errors.New("derivation index out of range")
)

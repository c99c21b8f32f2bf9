package address

import "errors"

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrUnknownAdapter   = errors.New("unknown address scheme")
)

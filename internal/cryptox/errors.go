package cryptox

import "errors"

// ErrMalformedBlob indicates an encrypted blob too short to even contain a
// nonce. Callers should treat it like any other decryption failure.
var ErrMalformedBlob = errors.New("malformed encrypted blob")

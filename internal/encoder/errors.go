package encoder

import "errors"

// ErrEncode is returned when the underlying QR library cannot produce a symbol,
// for example when the payload exceeds the capacity of the largest version.
var ErrEncode = errors.New("unable to encode QR code")

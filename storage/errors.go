package storage

import "errors"

var (
	ErrFormatMismatch = errors.New("the store header does not match the expected format")
	ErrCorrupt        = errors.New("the stored record bytes are malformed")
	ErrSizeMismatch   = errors.New("the declared length disagrees with the resolved length")
	ErrMissingNode    = errors.New("a required tree node is not in the cached set")
	ErrEnvelopeFormat = errors.New("the signed head envelope does not carry the expected headers")
)

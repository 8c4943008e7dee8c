package serialization

import "errors"

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrUnknownDType       = errors.New("unknown tensor dtype")
	ErrTensorNotFound     = errors.New("tensor not found")
	ErrSizeMismatch       = errors.New("tensor size does not match shape and dtype")
)

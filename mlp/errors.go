package mlp

import "errors"

// Common errors.
var (
	ErrInvalidArch         = errors.New("invalid architecture")
	ErrShapeMismatch       = errors.New("parameter shape mismatch")
	ErrDTypeMismatch       = errors.New("parameter dtype mismatch")
	ErrMissingParameter    = errors.New("missing parameter")
	ErrUnexpectedParameter = errors.New("unexpected parameter")
	ErrArchMismatch        = errors.New("architecture mismatch")
	ErrBatchMismatch       = errors.New("batch shape mismatch")
)

package core

import (
	"errors"
)

// Serialization faults. Every Serialize* call either succeeds completely or
// returns one of these (wrapped) and leaves the buffer untouched.
var (
	ErrCountMismatch      = errors.New("record count differs from declared count")
	ErrSingularTransform  = errors.New("transformation matrix is not invertible")
	ErrOffsetOverflow     = errors.New("offset plus record count exceeds buffer capacity")
	ErrNonAffineTransform = errors.New("transformation matrix is not affine")
)

var (
	ErrInvalidParameter   = errors.New("invalid primitive parameter")
	ErrInvalidFace        = errors.New("face references a missing vertex")
	ErrUnknownPrimitive   = errors.New("unknown primitive kind")
	ErrUnknownFormat      = errors.New("unknown config file format")
	ErrUnknown            = errors.New("unknown")
)

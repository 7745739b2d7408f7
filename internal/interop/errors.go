package interop

import (
	"errors"

	"github.com/lumen-ml/lumen/internal/device"
)

// Common errors. Validation happens before any data movement: when one of
// these is returned, zero bytes were touched.
var (
	ErrShapeMismatch   = errors.New("tensor rank does not match requested depth")
	ErrDtypeMismatch   = errors.New("tensor dtype does not match requested element kind")
	ErrDeviceMismatch  = errors.New("tensor is not resident on the expected device")
	ErrTypeMismatch    = errors.New("object does not expose the tensor introspection surface")
	ErrUnsupportedType = errors.New("no external dtype analog for element kind")

	// ErrAllocation is the device allocator failure; fatal, never retried.
	ErrAllocation = device.ErrAllocation
)

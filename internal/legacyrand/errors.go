package legacyrand

import "errors"

// ErrGaussianCapacity indicates a Gaussian request needs more uniforms than
// the legacy intermediate buffer holds.
var ErrGaussianCapacity = errors.New("gaussian count exceeds legacy buffer capacity")

// ErrInvalidCount indicates a negative sequence length.
var ErrInvalidCount = errors.New("count must be non-negative")

// ErrInvalidDimension indicates a dimension outside [1, MaxDimension].
var ErrInvalidDimension = errors.New("dimension must be between 1 and 40")

// ErrInvalidIdentifier indicates a non-positive function or instance id.
var ErrInvalidIdentifier = errors.New("function and instance ids must be positive")

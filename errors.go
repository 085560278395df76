package rasterdoc

import "errors"

// Errors returned by the pixel, region and layer operations. Call sites
// wrap them with detail, so match with errors.Is.
var (
	// ErrInvalidDimension is returned when a buffer is created with a
	// negative size or an unsupported channel count.
	ErrInvalidDimension = errors.New("rasterdoc: invalid dimension")

	// ErrOutOfBounds is returned when a coordinate or channel index lies
	// outside the buffer.
	ErrOutOfBounds = errors.New("rasterdoc: coordinates out of bounds")

	// ErrInvalidRegion is returned when a region has a negative width or height.
	ErrInvalidRegion = errors.New("rasterdoc: invalid region")

	// ErrIteratorExhausted signals that a RegionIterator has visited every
	// pixel. It marks the normal end of a traversal, not a failure.
	ErrIteratorExhausted = errors.New("rasterdoc: iterator exhausted")

	// ErrDuplicateName is returned when a sibling layer (or a registered
	// extension) already uses the name.
	ErrDuplicateName = errors.New("rasterdoc: duplicate name")

	// ErrNotFound is returned when a named layer or extension does not exist.
	ErrNotFound = errors.New("rasterdoc: not found")

	// ErrOutOfRange is returned when a geometry parameter is outside its
	// accepted domain.
	ErrOutOfRange = errors.New("rasterdoc: value out of range")

	// ErrUnknownStrategy is returned for a resampling strategy name that is
	// not one of the known filters.
	ErrUnknownStrategy = errors.New("rasterdoc: unknown scaling strategy")
)

// IsExhausted reports whether err marks the end of a region traversal.
// Reporting code uses it to keep end-of-iteration apart from real failures.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrIteratorExhausted)
}

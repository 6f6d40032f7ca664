package scan

import "errors"

// Sentinel errors for the scanline domain. Callers match with errors.Is;
// wrapping with fmt.Errorf("...: %w", err) preserves the category while
// adding context.
var (
	// ErrInvalidInputShape reports a raw row whose sample count is not RawWidth.
	ErrInvalidInputShape = errors.New("invalid input shape")

	// ErrInvalidRange reports a depth range with min > max.
	ErrInvalidRange = errors.New("invalid depth range")

	// ErrOutOfDomain reports a depth bound outside [MinDepth, MaxDepth].
	ErrOutOfDomain = errors.New("depth out of domain")

	// ErrUnknownColorTransform reports a colormap name outside the fixed set.
	ErrUnknownColorTransform = errors.New("unknown color transform")

	// ErrStoreUnavailable reports that the backing store could not be reached
	// or failed while executing a statement.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNoData reports an empty synthesis input or an empty query result
	// surfaced as not-found.
	ErrNoData = errors.New("no data")

	// ErrTimeout reports that a request exceeded its processing deadline.
	ErrTimeout = errors.New("timed out")
)

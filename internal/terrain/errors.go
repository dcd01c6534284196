package terrain

import "errors"

// Terrain errors. All of these are recoverable conditions reported to the
// caller; none should terminate the process.
var (
	// ErrOutOfBounds reports an index or world-space query outside the grid.
	ErrOutOfBounds = errors.New("coordinate outside grid bounds")

	// ErrInvalidRange reports a mesh rectangle or stride request inconsistent
	// with the grid or the tile-size configuration.
	ErrInvalidRange = errors.New("invalid mesh range")

	// ErrRegenerationDeferred reports that a tile failed to rebuild this
	// frame. The tile keeps its previous buffers and is retried on the next
	// update tick.
	ErrRegenerationDeferred = errors.New("tile regeneration deferred")
)

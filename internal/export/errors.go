package export

import "errors"

// Run failures are classified so callers and tests can tell how far a
// run got. Every one of these is fatal; there is no retry policy.
var (
	// ErrDestinationNotFound means the destination bucket does not exist.
	ErrDestinationNotFound = errors.New("destination bucket not found")

	// ErrDestinationUnavailable means the destination bucket could not
	// be verified (permissions, transport).
	ErrDestinationUnavailable = errors.New("destination bucket unavailable")

	// ErrCheckpointRead means an existing checkpoint object could not be
	// read or parsed. An absent checkpoint is not an error.
	ErrCheckpointRead = errors.New("checkpoint read failed")

	// ErrCheckpointWrite means the run copied objects but could not
	// commit the new checkpoint. The copied objects remain; the next run
	// re-delivers them (at-least-once).
	ErrCheckpointWrite = errors.New("checkpoint write failed")

	// ErrEventTransfer means enumerating, compressing or uploading an
	// event failed. The run aborts immediately; no partial-batch
	// continuation.
	ErrEventTransfer = errors.New("event transfer failed")
)

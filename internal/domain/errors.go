package domain

import "errors"

// ErrSessionClosed is returned for any operation attempted on a session in a
// terminal state. The API layer recovers it with a fixed "conversation
// ended" reply rather than surfacing a fault.
var ErrSessionClosed = errors.New("session closed")

// ErrGenerationUnavailable wraps failures of the external generation
// backend. The engine recovers locally with a persona stall reply.
var ErrGenerationUnavailable = errors.New("generation backend unavailable")

// ErrMalformedInput marks an unparseable inbound payload. It is rejected
// before the state machine runs, so no session mutation occurs.
var ErrMalformedInput = errors.New("malformed input")

package brackets

import "errors"

// Validation failures returned by the engine. Every failed operation leaves
// bracket state untouched.
var (
	ErrInvalidFormat            = errors.New("match format must be an odd, positive best-of value")
	ErrInsufficientParticipants = errors.New("not enough participants to build a bracket (minimum 2)")
	ErrRoundNotComplete         = errors.New("round is not complete or is not a single contiguous round")
	ErrMatchNotFound            = errors.New("match not found in bracket")
	ErrMatchAlreadyDecided      = errors.New("match already decided with a different result")
	ErrMatchNotReady            = errors.New("match is waiting for a feeder result")
	ErrInvalidScore             = errors.New("invalid score report")
)

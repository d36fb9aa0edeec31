package services

import "errors"

// Business-rule errors shared by the services and the HTTP error mapper.
// Engine validation errors (insufficient participants, invalid score, and so
// on) come from the brackets package and are surfaced unwrapped.
var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")

	ErrTournamentNameRequired    = errors.New("tournament name is required")
	ErrTournamentInvalidCapacity = errors.New("tournament max participants must be at least 2")
	ErrTournamentNameConflict    = errors.New("tournament name already exists")
	ErrTournamentFull            = errors.New("tournament registration is full")

	ErrRegistrationClosed                = errors.New("tournament roster is locked once the bracket is built")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")

	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)

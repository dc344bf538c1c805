package domain

import "errors"

// Domain errors
var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrInvalidDirection   = errors.New("invalid vote direction")
	ErrUnknownTopology    = errors.New("unknown control topology")
	ErrInvalidSettings    = errors.New("invalid match settings")
	ErrTickFault          = errors.New("tick fault")
)

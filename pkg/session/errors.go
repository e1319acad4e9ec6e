package session

import "errors"

var (
	ErrSlotTaken      = errors.New("session: slot already taken by another player")
	ErrNotReady       = errors.New("session: both slots must be filled before start")
	ErrAlreadyStarted = errors.New("session: already active")
	ErrNotActive      = errors.New("session: session is not active")
	ErrUnknownPlayer  = errors.New("session: player is not seated in this session")
	ErrNoDrawOffer    = errors.New("session: no outstanding draw offer from the opponent")
)

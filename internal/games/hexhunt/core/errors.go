package core

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is matched by every *IllegalMoveError.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidRadius is matched by every *RadiusError.
	ErrInvalidRadius = errors.New("invalid board radius")

	// ErrNotYourTurn is returned by PlayMove when the mover is not on turn.
	ErrNotYourTurn = errors.New("not your turn")
)

// Reasons attached to IllegalMoveError.
const (
	ReasonNoSuchEdge    = "edge not on board"
	ReasonClaimed       = "edge already claimed"
	ReasonUnknownPlayer = "unknown player"
	ReasonNoPortal      = "no portal right held"
	ReasonWrongSource   = "source is not the portal hexagon"
	ReasonSourceLost    = "portal hexagon no longer owned"
	ReasonBadTarget     = "target not owned by opponent"
	ReasonGameOver      = "game is over"
	ReasonNoGauntlet    = "no gauntlet held"
	ReasonNothingToTake = "opponent has no treasure to steal"
	ReasonUnknownKind   = "unknown move kind"
)

// IllegalMoveError describes a rejected move. The state is left unchanged.
type IllegalMoveError struct {
	Move   Move
	Player Player
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("core: illegal move %s by %s: %s", e.Move, e.Player, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// RadiusError reports a board radius outside the supported range.
type RadiusError struct {
	Radius int
	Min    int
	Max    int
}

func (e *RadiusError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("core: board radius %d outside [%d, %d]", e.Radius, e.Min, e.Max)
	}
	return fmt.Sprintf("core: board radius %d below %d", e.Radius, e.Min)
}

func (e *RadiusError) Unwrap() error {
	return ErrInvalidRadius
}

func illegal(m Move, p Player, reason string) error {
	return &IllegalMoveError{Move: m, Player: p, Reason: reason}
}

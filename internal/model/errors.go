package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Roster errors
	ErrInvalidName    = errors.New("player name must be 1-15 characters")
	ErrDuplicateName  = errors.New("player name already exists")
	ErrRosterFull     = errors.New("roster is full")
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrNoPlayerSelected   = errors.New("no player selected")
	ErrNoActiveSession    = errors.New("no active session for player")
	ErrSessionInProgress  = errors.New("a round is already in progress")
	ErrInvalidGuess       = errors.New("guess must be exactly 4 digits")
	ErrNoHelpLeft         = errors.New("no help tokens left")
	ErrIncompleteGuess    = errors.New("guess draft must have 4 digits")
	ErrRestartAlreadyUsed = errors.New("round has already been restarted")

	// Storage errors
	ErrPersistenceFailure = errors.New("persistence failure")
)

// PersistenceError wraps a storage error so callers can match ErrPersistenceFailure
func PersistenceError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistenceFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
}
